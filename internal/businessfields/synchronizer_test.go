package businessfields

import (
	"context"
	"testing"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"github.com/erp/checkout-fields/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderStore counts saves and captures the last saved order
type mockOrderStore struct {
	orders map[uuid.UUID]*checkout.Order
	saves  int
	saved  *checkout.Order
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: make(map[uuid.UUID]*checkout.Order)}
}

func (m *mockOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (m *mockOrderStore) Save(ctx context.Context, order *checkout.Order) error {
	m.saves++
	m.saved = order
	m.orders[order.ID] = order
	return nil
}

func newTestOrder(t *testing.T) *checkout.Order {
	t.Helper()
	order, err := checkout.NewOrder("SO-1001")
	require.NoError(t, err)
	return order
}

func assertNoResidualFields(t *testing.T, order *checkout.Order) {
	t.Helper()
	for _, fieldID := range AllFieldIDs {
		assert.False(t, order.HasField(fieldID), "residual generic storage for %s", fieldID)
	}
}

func TestSynchronizer_BusinessWritesDualMetadata(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	order := newTestOrder(t)
	order.SetFieldValue(checkout.GroupOther, FieldBuyingAsBusiness, "1")
	order.SetFieldValue(checkout.GroupOther, FieldCompanyID, "12345678")

	require.NoError(t, sync.Sync(context.Background(), order, &checkout.Submission{}))

	assert.Equal(t, "12345678", order.MetaValue(MetaCompanyID))
	assert.Equal(t, "12345678", order.MetaValue(MetaCompanyIDPrefixed))
	assertNoResidualFields(t, order)
	assert.Equal(t, 1, store.saves)
}

func TestSynchronizer_CompanyNameForcedOnBothAddresses(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	order := newTestOrder(t)
	order.ShippingCompany = "Stale Shipping Co"
	order.SetFieldValue(checkout.GroupOther, FieldBuyingAsBusiness, "1")
	order.SetFieldValue(checkout.GroupOther, FieldCompanyName, "ACME s.r.o.")

	require.NoError(t, sync.Sync(context.Background(), order, &checkout.Submission{}))

	assert.Equal(t, "ACME s.r.o.", order.BillingCompany)
	assert.Equal(t, "ACME s.r.o.", order.ShippingCompany)
}

func TestSynchronizer_AllFieldsAcrossGroups(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	// Host may file values under any of the three groups
	order := newTestOrder(t)
	order.SetFieldValue(checkout.GroupOther, FieldBuyingAsBusiness, "1")
	order.SetFieldValue(checkout.GroupBilling, FieldCompanyName, "ACME s.r.o.")
	order.SetFieldValue(checkout.GroupShipping, FieldCompanyVAT, "SK1234567890")
	order.SetFieldValue(checkout.GroupOther, FieldCompanyTax, "TAX-99")

	require.NoError(t, sync.Sync(context.Background(), order, &checkout.Submission{}))

	assert.Equal(t, "ACME s.r.o.", order.BillingCompany)
	assert.Equal(t, "SK1234567890", order.MetaValue(MetaCompanyVAT))
	assert.Equal(t, "SK1234567890", order.MetaValue(MetaCompanyVATPrefixed))
	assert.Equal(t, "TAX-99", order.MetaValue(MetaCompanyTax))
	assert.Equal(t, "TAX-99", order.MetaValue(MetaCompanyTaxPrefixed))
	assertNoResidualFields(t, order)
	assert.Equal(t, 1, store.saves)
}

func TestSynchronizer_FallsBackToSubmissionValues(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	// Order-side storage not yet populated by the host; values only in the
	// submission payload
	order := newTestOrder(t)
	sub := &checkout.Submission{Values: map[string]string{
		FieldBuyingAsBusiness: "1",
		FieldCompanyName:      "ACME s.r.o.",
		FieldCompanyID:        "12345678",
	}}

	require.NoError(t, sync.Sync(context.Background(), order, sub))

	assert.Equal(t, "ACME s.r.o.", order.BillingCompany)
	assert.Equal(t, "12345678", order.MetaValue(MetaCompanyID))
	assert.Equal(t, 1, store.saves)
}

func TestSynchronizer_OrderStoragePrecedesSubmission(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	order := newTestOrder(t)
	order.SetFieldValue(checkout.GroupOther, FieldBuyingAsBusiness, "1")
	order.SetFieldValue(checkout.GroupOther, FieldCompanyID, "from-order")
	sub := &checkout.Submission{Values: map[string]string{
		FieldCompanyID: "from-request",
	}}

	require.NoError(t, sync.Sync(context.Background(), order, sub))

	assert.Equal(t, "from-order", order.MetaValue(MetaCompanyID))
}

func TestSynchronizer_NonBusinessClearsCompanyAttributes(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	order := newTestOrder(t)
	order.BillingCompany = "Left Over Ltd"
	order.ShippingCompany = "Left Over Ltd"
	sub := &checkout.Submission{Values: map[string]string{
		FieldBuyingAsBusiness: "0",
	}}

	require.NoError(t, sync.Sync(context.Background(), order, sub))

	assert.Empty(t, order.BillingCompany)
	assert.Empty(t, order.ShippingCompany)
	assert.Equal(t, 1, store.saves)
}

func TestSynchronizer_NonBusinessPurgesGenericStorage(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	order := newTestOrder(t)
	order.SetFieldValue(checkout.GroupOther, FieldBuyingAsBusiness, "0")
	order.SetFieldValue(checkout.GroupOther, FieldCompanyName, "Ignored Inc")

	require.NoError(t, sync.Sync(context.Background(), order, &checkout.Submission{}))

	assertNoResidualFields(t, order)
	assert.Empty(t, order.MetaValue(MetaCompanyID))
}

func TestSynchronizer_SanitizesValues(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	order := newTestOrder(t)
	sub := &checkout.Submission{Values: map[string]string{
		FieldBuyingAsBusiness: "1",
		FieldCompanyName:      "  ACME <script>alert(1)</script>  s.r.o. ",
		FieldCompanyID:        "123\x0045678",
	}}

	require.NoError(t, sync.Sync(context.Background(), order, sub))

	assert.Equal(t, "ACME alert(1) s.r.o.", order.BillingCompany)
	assert.Equal(t, "123 45678", order.MetaValue(MetaCompanyID))
}

func TestSynchronizer_RetryWithoutSubmissionIsNoOp(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	order := newTestOrder(t)
	sub := &checkout.Submission{Values: map[string]string{
		FieldBuyingAsBusiness: "1",
		FieldCompanyName:      "ACME s.r.o.",
	}}
	require.NoError(t, sync.Sync(context.Background(), order, sub))
	require.Equal(t, 1, store.saves)

	// Host retry with no submission data: generic storage already deleted,
	// synced values must survive
	require.NoError(t, sync.Sync(context.Background(), order, &checkout.Submission{}))

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "ACME s.r.o.", order.BillingCompany)
}

func TestSynchronizer_RerunWithSameSubmissionIsIdempotent(t *testing.T) {
	store := newMockOrderStore()
	sync := NewSynchronizer(store, nil)

	order := newTestOrder(t)
	sub := &checkout.Submission{Values: map[string]string{
		FieldBuyingAsBusiness: "1",
		FieldCompanyName:      "ACME s.r.o.",
		FieldCompanyID:        "12345678",
	}}
	require.NoError(t, sync.Sync(context.Background(), order, sub))
	require.NoError(t, sync.Sync(context.Background(), order, sub))

	assert.Equal(t, "ACME s.r.o.", order.BillingCompany)
	assert.Equal(t, "12345678", order.MetaValue(MetaCompanyID))
	assert.Equal(t, "12345678", order.MetaValue(MetaCompanyIDPrefixed))
	assertNoResidualFields(t, order)
}

func TestSynchronizer_NilOrderRejected(t *testing.T) {
	sync := NewSynchronizer(newMockOrderStore(), nil)
	err := sync.Sync(context.Background(), nil, &checkout.Submission{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
