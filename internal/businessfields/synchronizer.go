package businessfields

import (
	"context"
	"fmt"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"github.com/erp/checkout-fields/internal/domain/shared"
	"go.uber.org/zap"
)

// metaKeyPairs maps each text field to its legacy metadata keys. Both the
// prefixed and unprefixed variants receive the same value.
var metaKeyPairs = map[string][2]string{
	FieldCompanyID:  {MetaCompanyID, MetaCompanyIDPrefixed},
	FieldCompanyVAT: {MetaCompanyVAT, MetaCompanyVATPrefixed},
	FieldCompanyTax: {MetaCompanyTax, MetaCompanyTaxPrefixed},
}

// Synchronizer copies accepted business-field values from the host's generic
// field storage into the order's dedicated attributes and legacy metadata
// keys, then deletes the generic copies so the data is not displayed twice
// in administrative views.
type Synchronizer struct {
	store  checkout.OrderStore
	logger *zap.Logger
}

// NewSynchronizer creates a synchronizer flushing through the given store
func NewSynchronizer(store checkout.OrderStore, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{store: store, logger: logger}
}

// Sync runs the synchronization for one order. Values are resolved from the
// order's generic storage first and the submission payload second; the
// fallback covers the timing gap where the host has not yet populated the
// order when the hook fires. The order is persisted exactly once, after all
// mutations.
//
// A re-invocation without any submission data for the five fields is a
// guarded no-op: the first pass already deleted the generic storage, and a
// host-side retry must not wipe values the first pass placed in the legacy
// keys.
func (s *Synchronizer) Sync(ctx context.Context, order *checkout.Order, sub *checkout.Submission) error {
	if order == nil {
		return fmt.Errorf("%w: order cannot be nil", shared.ErrInvalidInput)
	}
	if s.store == nil {
		return fmt.Errorf("%w: synchronizer has no order store", shared.ErrInvalidState)
	}

	if !hasFieldData(order, sub) {
		s.logger.Debug("no business field data on order or submission, skipping sync",
			zap.String("order", order.Number))
		return nil
	}

	if isBusinessPurchase(order, sub) {
		if name := sanitizeText(resolveValue(order, sub, FieldCompanyName)); name != "" {
			// Legacy non-block checkout kept billing and shipping company in
			// lockstep; force both to match.
			order.BillingCompany = name
			order.ShippingCompany = name
		}
		for fieldID, keys := range metaKeyPairs {
			if value := sanitizeText(resolveValue(order, sub, fieldID)); value != "" {
				order.SetMeta(keys[0], value)
				order.SetMeta(keys[1], value)
			}
		}
	} else {
		// Not a business purchase: clear the company attributes even if an
		// earlier session set them.
		order.BillingCompany = ""
		order.ShippingCompany = ""
	}

	for _, group := range checkout.FieldGroups {
		for _, fieldID := range AllFieldIDs {
			order.DeleteField(group, fieldID)
		}
	}

	return s.store.Save(ctx, order)
}

// resolveValue prefers the order's generic field storage and falls back to
// the submission payload when every group is empty.
func resolveValue(order *checkout.Order, sub *checkout.Submission, fieldID string) string {
	for _, group := range checkout.FieldGroups {
		if v := order.FieldValue(group, fieldID); v != "" {
			return v
		}
	}
	return sub.Value(fieldID)
}

// isBusinessPurchase resolves the buying-as-business flag with the same
// order-then-submission precedence as field values.
func isBusinessPurchase(order *checkout.Order, sub *checkout.Submission) bool {
	for _, group := range checkout.FieldGroups {
		if v := order.FieldValue(group, FieldBuyingAsBusiness); v != "" {
			return parseBool(v)
		}
	}
	return sub.Bool(FieldBuyingAsBusiness)
}

// hasFieldData reports whether any of the five fields is present in the
// order's generic storage or the submission.
func hasFieldData(order *checkout.Order, sub *checkout.Submission) bool {
	for _, fieldID := range AllFieldIDs {
		if order.HasField(fieldID) {
			return true
		}
		if sub.Value(fieldID) != "" {
			return true
		}
	}
	return false
}

func parseBool(v string) bool {
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
