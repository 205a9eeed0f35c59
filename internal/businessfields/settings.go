package businessfields

import (
	"fmt"
	"strings"

	"github.com/erp/checkout-fields/internal/domain/shared"
)

// Field identifiers registered with the host's additional checkout field
// registry.
const (
	FieldBuyingAsBusiness = "business-fields/buying-as-business"
	FieldCompanyName      = "business-fields/company-name"
	FieldCompanyID        = "business-fields/company-id"
	FieldCompanyVAT       = "business-fields/company-vat"
	FieldCompanyTax       = "business-fields/company-tax"
)

// AllFieldIDs lists every field this extension owns, in registration order.
var AllFieldIDs = []string{
	FieldBuyingAsBusiness,
	FieldCompanyName,
	FieldCompanyID,
	FieldCompanyVAT,
	FieldCompanyTax,
}

// Legacy metadata keys written by the synchronizer. Each value is stored
// twice, with and without the leading underscore: older code paths read
// either form. The duplication is intentional backward compatibility, not
// a bug.
const (
	MetaCompanyID          = "billing_company_wi_id"
	MetaCompanyIDPrefixed  = "_billing_company_wi_id"
	MetaCompanyVAT         = "billing_company_wi_vat"
	MetaCompanyVATPrefixed = "_billing_company_wi_vat"
	MetaCompanyTax         = "billing_company_wi_tax"
	MetaCompanyTaxPrefixed = "_billing_company_wi_tax"
)

// hostCompanyFieldID is the host's built-in generic company field, hidden by
// the registrar to avoid rendering a duplicate input.
const hostCompanyFieldID = "company"

// Validation error codes attached to field errors
const (
	CodeRequired   = "REQUIRED"
	CodeInvalid    = "INVALID"
	CodeUnverified = "UNVERIFIED"
)

// RequirementLevel controls whether a business field is registered and
// enforced.
type RequirementLevel string

const (
	LevelRequired RequirementLevel = "required"
	LevelOptional RequirementLevel = "optional"
	LevelNo       RequirementLevel = "no"
)

// IsValid checks if the level is a known RequirementLevel
func (l RequirementLevel) IsValid() bool {
	switch l {
	case LevelRequired, LevelOptional, LevelNo:
		return true
	}
	return false
}

// Requires reports whether the level enforces a non-empty value
func (l RequirementLevel) Requires() bool {
	return l == LevelRequired
}

// Registered reports whether a field at this level is registered at all
func (l RequirementLevel) Registered() bool {
	return l != LevelNo
}

// ParseRequirementLevel parses a configuration value into a RequirementLevel
func ParseRequirementLevel(s string) (RequirementLevel, error) {
	l := RequirementLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("%w: unknown requirement level '%s'", shared.ErrInvalidInput, s)
	}
	return l, nil
}

// Settings holds the extension configuration
type Settings struct {
	// Enabled is the master switch
	Enabled bool
	// NameRequirement controls company-name enforcement; the field itself is
	// always registered, so "no" is not a valid value here.
	NameRequirement RequirementLevel
	// IDRequirement controls national-ID field presence and enforcement
	IDRequirement RequirementLevel
	// VATRequirement controls VAT field presence and enforcement
	VATRequirement RequirementLevel
	// TaxRequirement controls tax-ID field presence and enforcement
	TaxRequirement RequirementLevel
	// ValidateEUVAT enables the EU VAT format check against the external
	// validation service
	ValidateEUVAT bool
}

// DefaultSettings returns the settings used when no configuration is present
func DefaultSettings() Settings {
	return Settings{
		Enabled:         true,
		NameRequirement: LevelRequired,
		IDRequirement:   LevelOptional,
		VATRequirement:  LevelOptional,
		TaxRequirement:  LevelOptional,
		ValidateEUVAT:   false,
	}
}

// Validate checks the settings for consistency
func (s Settings) Validate() error {
	if !s.NameRequirement.IsValid() || s.NameRequirement == LevelNo {
		return fmt.Errorf("%w: name requirement must be 'required' or 'optional', got '%s'", shared.ErrInvalidInput, s.NameRequirement)
	}
	if !s.IDRequirement.IsValid() {
		return fmt.Errorf("%w: invalid ID requirement '%s'", shared.ErrInvalidInput, s.IDRequirement)
	}
	if !s.VATRequirement.IsValid() {
		return fmt.Errorf("%w: invalid VAT requirement '%s'", shared.ErrInvalidInput, s.VATRequirement)
	}
	if !s.TaxRequirement.IsValid() {
		return fmt.Errorf("%w: invalid tax requirement '%s'", shared.ErrInvalidInput, s.TaxRequirement)
	}
	return nil
}
