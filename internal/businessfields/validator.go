package businessfields

import (
	"context"
	"strings"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"go.uber.org/zap"
)

// Validator enforces the configured requirement levels on a checkout
// submission. Enforcement applies only to final order-submission attempts;
// live field edits pass through untouched.
type Validator struct {
	settings Settings
	vat      checkout.VATValidator
	isFinal  checkout.FinalSubmissionFunc
	logger   *zap.Logger
}

// NewValidator creates a validator. vat may be nil when the EU VAT format
// check is disabled; isFinal is the host-supplied final-submission predicate.
func NewValidator(settings Settings, vat checkout.VATValidator, isFinal checkout.FinalSubmissionFunc, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		settings: settings,
		vat:      vat,
		isFinal:  isFinal,
		logger:   logger,
	}
}

// Validate appends field-tagged errors for the submission. All rules run
// independently; multiple errors may attach in one pass. If the buying-as-
// business flag is off, the business fields are irrelevant for the order and
// no checks run.
func (v *Validator) Validate(ctx context.Context, sub *checkout.Submission, errs checkout.ErrorCollector) error {
	if !v.settings.Enabled {
		return nil
	}
	if v.isFinal == nil || !v.isFinal(sub) {
		return nil
	}
	if !sub.Bool(FieldBuyingAsBusiness) {
		return nil
	}

	if v.settings.NameRequirement.Requires() && submittedValue(sub, FieldCompanyName) == "" {
		errs.Add(FieldCompanyName, CodeRequired, "Company name is required")
	}

	if v.settings.IDRequirement.Requires() && submittedValue(sub, FieldCompanyID) == "" {
		errs.Add(FieldCompanyID, CodeRequired, "Company ID number is required")
	}

	vatValue := submittedValue(sub, FieldCompanyVAT)
	if v.settings.VATRequirement.Requires() && vatValue == "" {
		errs.Add(FieldCompanyVAT, CodeRequired, "VAT number is required")
	}
	if v.settings.ValidateEUVAT && vatValue != "" {
		v.checkVATFormat(ctx, vatValue, errs)
	}

	if v.settings.TaxRequirement.Requires() && submittedValue(sub, FieldCompanyTax) == "" {
		errs.Add(FieldCompanyTax, CodeRequired, "Tax ID is required")
	}

	return nil
}

// checkVATFormat consults the external VAT validation service. An
// indeterminate answer (service unreachable, malformed response) yields a
// distinct "could not be validated" error rather than a hard rejection.
func (v *Validator) checkVATFormat(ctx context.Context, vatValue string, errs checkout.ErrorCollector) {
	if v.vat == nil {
		v.logger.Debug("VAT validator unavailable, skipping format check")
		return
	}

	valid, err := v.vat.Validate(ctx, vatValue)
	if err != nil {
		v.logger.Debug("VAT validation indeterminate", zap.Error(err))
		valid = nil
	}

	switch {
	case valid == nil:
		errs.Add(FieldCompanyVAT, CodeUnverified, "VAT number could not be validated")
	case !*valid:
		errs.Add(FieldCompanyVAT, CodeInvalid, "VAT number format is invalid")
	}
}

func submittedValue(sub *checkout.Submission, fieldID string) string {
	return strings.TrimSpace(sub.Value(fieldID))
}
