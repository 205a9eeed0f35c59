package handler

import (
	"fmt"
	"sync"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"github.com/erp/checkout-fields/internal/domain/shared"
)

// HostFieldRegistry is the reference host's implementation of the field
// registry and locale filter capabilities. It records registered field
// definitions and installed locale filters.
type HostFieldRegistry struct {
	mu             sync.RWMutex
	defs           []checkout.FieldDefinition
	byID           map[string]checkout.FieldDefinition
	defaultFilters []checkout.LocaleFilterFunc
	countryFilters []checkout.LocaleFilterFunc
}

// NewHostFieldRegistry creates an empty registry
func NewHostFieldRegistry() *HostFieldRegistry {
	return &HostFieldRegistry{
		byID: make(map[string]checkout.FieldDefinition),
	}
}

// Register records a field definition
func (r *HostFieldRegistry) Register(def checkout.FieldDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("%w: field ID cannot be empty", shared.ErrInvalidInput)
	}
	if !def.Location.IsValid() {
		return fmt.Errorf("%w: invalid field location '%s'", shared.ErrInvalidInput, def.Location)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[def.ID]; exists {
		return fmt.Errorf("%w: field '%s' already registered", shared.ErrAlreadyExists, def.ID)
	}
	r.defs = append(r.defs, def)
	r.byID[def.ID] = def
	return nil
}

// AddDefaultLocaleFilter installs a filter over the locale-default field set
func (r *HostFieldRegistry) AddDefaultLocaleFilter(f checkout.LocaleFilterFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultFilters = append(r.defaultFilters, f)
}

// AddCountryLocaleFilter installs a filter over every per-country field set
func (r *HostFieldRegistry) AddCountryLocaleFilter(f checkout.LocaleFilterFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countryFilters = append(r.countryFilters, f)
}

// Definitions returns the registered definitions in registration order
func (r *HostFieldRegistry) Definitions() []checkout.FieldDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]checkout.FieldDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup returns the definition for a field identifier
func (r *HostFieldRegistry) Lookup(fieldID string) (checkout.FieldDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byID[fieldID]
	return def, ok
}

// ApplyDefaultLocale runs the installed locale-default filters over a field set
func (r *HostFieldRegistry) ApplyDefaultLocale(fields []checkout.LocaleField) []checkout.LocaleField {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.defaultFilters {
		fields = f(fields)
	}
	return fields
}

// ApplyCountryLocale runs the installed per-country filters over a field set
func (r *HostFieldRegistry) ApplyCountryLocale(fields []checkout.LocaleField) []checkout.LocaleField {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.countryFilters {
		fields = f(fields)
	}
	return fields
}

// StorageGroup maps a field's location category to the order storage group
// the host files its generic value under.
func StorageGroup(loc checkout.FieldLocation) checkout.FieldGroup {
	switch loc {
	case checkout.LocationAddress:
		return checkout.GroupBilling
	default:
		return checkout.GroupOther
	}
}
