package businessfields

import (
	"fmt"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"go.uber.org/zap"
)

// Registrar emits the extension's field definitions to the host's field
// registry and hides the host's built-in company field.
type Registrar struct {
	settings Settings
	logger   *zap.Logger
}

// NewRegistrar creates a registrar for the given settings
func NewRegistrar(settings Settings, logger *zap.Logger) *Registrar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registrar{settings: settings, logger: logger}
}

// Definitions returns the field definitions to register for the current
// settings. ID/VAT/TAX fields are omitted entirely at level "no". The
// optional-label overlay is attached only when a field is NOT required; the
// host renders required fields without the "(optional)" decoration.
func (r *Registrar) Definitions() []checkout.FieldDefinition {
	defs := []checkout.FieldDefinition{
		{
			ID:       FieldBuyingAsBusiness,
			Label:    "Buying as a business",
			Location: checkout.LocationContact,
			Type:     checkout.FieldTypeCheckbox,
		},
		textField(FieldCompanyName, "Company name", r.settings.NameRequirement),
	}

	if r.settings.IDRequirement.Registered() {
		defs = append(defs, textField(FieldCompanyID, "Company ID number", r.settings.IDRequirement))
	}
	if r.settings.VATRequirement.Registered() {
		defs = append(defs, textField(FieldCompanyVAT, "VAT number", r.settings.VATRequirement))
	}
	if r.settings.TaxRequirement.Registered() {
		defs = append(defs, textField(FieldCompanyTax, "Tax ID", r.settings.TaxRequirement))
	}
	return defs
}

// Register declares all applicable fields with the host. A nil registry
// means the host lacks the additional-field capability; registration is
// then skipped without error.
func (r *Registrar) Register(registry checkout.FieldRegistry, locales checkout.LocaleFilterRegistry) error {
	if registry == nil {
		r.logger.Debug("field registry unavailable, skipping business field registration")
		return nil
	}

	for _, def := range r.Definitions() {
		if err := registry.Register(def); err != nil {
			return fmt.Errorf("register field %s: %w", def.ID, err)
		}
	}

	// Hide the host's own generic company field so the checkout does not
	// render two company inputs.
	if locales != nil {
		hide := checkout.HideFieldFilter(hostCompanyFieldID)
		locales.AddDefaultLocaleFilter(hide)
		locales.AddCountryLocaleFilter(hide)
	} else {
		r.logger.Debug("locale filter registry unavailable, built-in company field not hidden")
	}

	return nil
}

func textField(id, label string, level RequirementLevel) checkout.FieldDefinition {
	return checkout.FieldDefinition{
		ID:                id,
		Label:             label,
		Location:          checkout.LocationContact,
		Type:              checkout.FieldTypeText,
		Required:          level.Requires(),
		ShowOptionalLabel: !level.Requires(),
	}
}
