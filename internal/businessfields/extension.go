// Package businessfields is a checkout extension that adds conditional
// business-customer fields (buying-as-business flag, company name, national
// ID, VAT number, tax ID) to the host checkout, validates them against
// configured requirement levels and synchronizes accepted values into order
// records.
package businessfields

import (
	"context"
	"fmt"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"go.uber.org/zap"
)

// ExtensionName is the unique identifier under which the extension registers
const ExtensionName = "business-fields"

// Extension wires the registrar, validator and synchronizer into the host's
// checkout pipeline. It implements checkout.Extension.
type Extension struct {
	settings  Settings
	registrar *Registrar
	validator *Validator
	sync      *Synchronizer
	logger    *zap.Logger
}

// New creates the business-fields extension.
//   - store persists synchronized orders
//   - vat is the external VAT validation collaborator (nil disables the
//     format check regardless of settings)
//   - isFinal is the host-supplied final-submission predicate
func New(settings Settings, store checkout.OrderStore, vat checkout.VATValidator, isFinal checkout.FinalSubmissionFunc, logger *zap.Logger) (*Extension, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("business fields settings: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("businessfields")

	return &Extension{
		settings:  settings,
		registrar: NewRegistrar(settings, log),
		validator: NewValidator(settings, vat, isFinal, log),
		sync:      NewSynchronizer(store, log),
		logger:    log,
	}, nil
}

// Name returns the unique identifier for the extension
func (e *Extension) Name() string {
	return ExtensionName
}

// DisplayName returns the human-readable name for the extension
func (e *Extension) DisplayName() string {
	return "Business Customer Fields"
}

// RegisterFields declares the business fields with the host registry
func (e *Extension) RegisterFields(registry checkout.FieldRegistry, locales checkout.LocaleFilterRegistry) error {
	if !e.settings.Enabled {
		e.logger.Debug("business fields disabled, skipping registration")
		return nil
	}
	return e.registrar.Register(registry, locales)
}

// ValidateSubmission enforces requirement levels on a final submission
func (e *Extension) ValidateSubmission(ctx context.Context, sub *checkout.Submission, errs checkout.ErrorCollector) error {
	return e.validator.Validate(ctx, sub, errs)
}

// SyncOrder copies accepted values into the order record
func (e *Extension) SyncOrder(ctx context.Context, order *checkout.Order, sub *checkout.Submission) error {
	if !e.settings.Enabled {
		return nil
	}
	return e.sync.Sync(ctx, order, sub)
}
