package checkout

import (
	"context"
	"time"

	"github.com/erp/checkout-fields/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldGroup is a namespace of the host's generic additional-field storage
// on an order.
type FieldGroup string

const (
	GroupBilling  FieldGroup = "billing"
	GroupShipping FieldGroup = "shipping"
	GroupOther    FieldGroup = "other"
)

// FieldGroups lists all storage namespaces in a stable order.
var FieldGroups = []FieldGroup{GroupBilling, GroupShipping, GroupOther}

// IsValid checks if the group is a known FieldGroup
func (g FieldGroup) IsValid() bool {
	switch g {
	case GroupBilling, GroupShipping, GroupOther:
		return true
	}
	return false
}

// Order is the host-owned order record mutated by checkout extensions.
// It carries dedicated company attributes and legacy metadata keys alongside
// the generic additional-field storage.
type Order struct {
	ID              uuid.UUID
	Number          string
	Total           decimal.Decimal
	BillingCompany  string
	ShippingCompany string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	meta   map[string]string
	fields map[FieldGroup]map[string]string
}

// NewOrder creates a new order with the given number
func NewOrder(number string) (*Order, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	now := time.Now()
	return &Order{
		ID:        uuid.New(),
		Number:    number,
		Total:     decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
		meta:      make(map[string]string),
		fields:    make(map[FieldGroup]map[string]string),
	}, nil
}

// MetaValue returns the value of a metadata key, or "" when unset
func (o *Order) MetaValue(key string) string {
	return o.meta[key]
}

// SetMeta sets a metadata key to the given value
func (o *Order) SetMeta(key, value string) {
	if o.meta == nil {
		o.meta = make(map[string]string)
	}
	o.meta[key] = value
	o.UpdatedAt = time.Now()
}

// DeleteMeta removes a metadata key
func (o *Order) DeleteMeta(key string) {
	delete(o.meta, key)
	o.UpdatedAt = time.Now()
}

// Metadata returns a copy of all metadata entries
func (o *Order) Metadata() map[string]string {
	out := make(map[string]string, len(o.meta))
	for k, v := range o.meta {
		out[k] = v
	}
	return out
}

// FieldValue returns the generic additional-field value stored under the
// given group, or "" when absent.
func (o *Order) FieldValue(group FieldGroup, fieldID string) string {
	return o.fields[group][fieldID]
}

// SetFieldValue stores a generic additional-field value under a group
func (o *Order) SetFieldValue(group FieldGroup, fieldID, value string) {
	if o.fields == nil {
		o.fields = make(map[FieldGroup]map[string]string)
	}
	if o.fields[group] == nil {
		o.fields[group] = make(map[string]string)
	}
	o.fields[group][fieldID] = value
	o.UpdatedAt = time.Now()
}

// DeleteField removes the generic additional-field entry for a group
func (o *Order) DeleteField(group FieldGroup, fieldID string) {
	if o.fields[group] == nil {
		return
	}
	delete(o.fields[group], fieldID)
	if len(o.fields[group]) == 0 {
		delete(o.fields, group)
	}
	o.UpdatedAt = time.Now()
}

// AdditionalFields returns a copy of the generic field storage
func (o *Order) AdditionalFields() map[FieldGroup]map[string]string {
	out := make(map[FieldGroup]map[string]string, len(o.fields))
	for g, m := range o.fields {
		cp := make(map[string]string, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out[g] = cp
	}
	return out
}

// HasField reports whether any generic storage entry exists for the field
// in any group.
func (o *Order) HasField(fieldID string) bool {
	for _, g := range FieldGroups {
		if _, ok := o.fields[g][fieldID]; ok {
			return true
		}
	}
	return false
}

// RehydrateOrder reconstructs an order from persisted state
func RehydrateOrder(id uuid.UUID, number string, total decimal.Decimal, billingCompany, shippingCompany string, meta map[string]string, fields map[FieldGroup]map[string]string, createdAt, updatedAt time.Time) *Order {
	if meta == nil {
		meta = make(map[string]string)
	}
	if fields == nil {
		fields = make(map[FieldGroup]map[string]string)
	}
	return &Order{
		ID:              id,
		Number:          number,
		Total:           total,
		BillingCompany:  billingCompany,
		ShippingCompany: shippingCompany,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
		meta:            meta,
		fields:          fields,
	}
}

// OrderStore loads and persists order records. Save is the single flush an
// extension performs per sync invocation.
type OrderStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Save(ctx context.Context, order *Order) error
}

// VATValidator checks a VAT number against an external validation service.
// The result is tri-state: a nil pointer means the service was unreachable
// or the answer indeterminate. The error, when set, carries the cause for
// logging; callers must not treat it as fatal.
type VATValidator interface {
	Validate(ctx context.Context, vat string) (*bool, error)
}
