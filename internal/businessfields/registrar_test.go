package businessfields

import (
	"testing"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry records registered definitions and installed locale filters
type fakeRegistry struct {
	defs           []checkout.FieldDefinition
	defaultFilters []checkout.LocaleFilterFunc
	countryFilters []checkout.LocaleFilterFunc
}

func (r *fakeRegistry) Register(def checkout.FieldDefinition) error {
	r.defs = append(r.defs, def)
	return nil
}

func (r *fakeRegistry) AddDefaultLocaleFilter(f checkout.LocaleFilterFunc) {
	r.defaultFilters = append(r.defaultFilters, f)
}

func (r *fakeRegistry) AddCountryLocaleFilter(f checkout.LocaleFilterFunc) {
	r.countryFilters = append(r.countryFilters, f)
}

func (r *fakeRegistry) ids() []string {
	ids := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		ids = append(ids, d.ID)
	}
	return ids
}

func (r *fakeRegistry) byID(id string) (checkout.FieldDefinition, bool) {
	for _, d := range r.defs {
		if d.ID == id {
			return d, true
		}
	}
	return checkout.FieldDefinition{}, false
}

func TestRegistrar_AlwaysRegistersFlagAndCompanyName(t *testing.T) {
	settings := DefaultSettings()
	settings.IDRequirement = LevelNo
	settings.VATRequirement = LevelNo
	settings.TaxRequirement = LevelNo

	reg := &fakeRegistry{}
	require.NoError(t, NewRegistrar(settings, nil).Register(reg, reg))

	assert.Equal(t, []string{FieldBuyingAsBusiness, FieldCompanyName}, reg.ids())

	flag, ok := reg.byID(FieldBuyingAsBusiness)
	require.True(t, ok)
	assert.Equal(t, checkout.FieldTypeCheckbox, flag.Type)
}

func TestRegistrar_NeverRegistersFieldsSetToNo(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Settings)
		excluded string
	}{
		{"ID off", func(s *Settings) { s.IDRequirement = LevelNo }, FieldCompanyID},
		{"VAT off", func(s *Settings) { s.VATRequirement = LevelNo }, FieldCompanyVAT},
		{"tax off", func(s *Settings) { s.TaxRequirement = LevelNo }, FieldCompanyTax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.mutate(&settings)

			reg := &fakeRegistry{}
			require.NoError(t, NewRegistrar(settings, nil).Register(reg, reg))

			assert.NotContains(t, reg.ids(), tt.excluded)
			assert.Len(t, reg.defs, 4)
		})
	}
}

func TestRegistrar_AllLevelsRegistered(t *testing.T) {
	settings := DefaultSettings()
	settings.IDRequirement = LevelRequired
	settings.VATRequirement = LevelOptional
	settings.TaxRequirement = LevelRequired

	reg := &fakeRegistry{}
	require.NoError(t, NewRegistrar(settings, nil).Register(reg, reg))

	assert.Equal(t, []string{
		FieldBuyingAsBusiness,
		FieldCompanyName,
		FieldCompanyID,
		FieldCompanyVAT,
		FieldCompanyTax,
	}, reg.ids())
}

func TestRegistrar_OptionalLabelInvertedFromRequired(t *testing.T) {
	settings := DefaultSettings()
	settings.NameRequirement = LevelRequired
	settings.IDRequirement = LevelOptional

	reg := &fakeRegistry{}
	require.NoError(t, NewRegistrar(settings, nil).Register(reg, reg))

	name, ok := reg.byID(FieldCompanyName)
	require.True(t, ok)
	assert.True(t, name.Required)
	assert.False(t, name.ShowOptionalLabel)

	id, ok := reg.byID(FieldCompanyID)
	require.True(t, ok)
	assert.False(t, id.Required)
	assert.True(t, id.ShowOptionalLabel)
}

func TestRegistrar_HidesBuiltinCompanyField(t *testing.T) {
	reg := &fakeRegistry{}
	require.NoError(t, NewRegistrar(DefaultSettings(), nil).Register(reg, reg))

	require.Len(t, reg.defaultFilters, 1)
	require.Len(t, reg.countryFilters, 1)

	fields := []checkout.LocaleField{
		{ID: "company", Required: true},
		{ID: "city", Required: true},
	}
	filtered := reg.defaultFilters[0](fields)

	assert.True(t, filtered[0].Hidden)
	assert.False(t, filtered[0].Required)
	assert.False(t, filtered[1].Hidden)
	assert.True(t, filtered[1].Required)
}

func TestRegistrar_NilRegistryIsNoOp(t *testing.T) {
	err := NewRegistrar(DefaultSettings(), nil).Register(nil, nil)
	assert.NoError(t, err)
}
