package checkout

// FieldLocation is the grouping the host uses to route a field's value
// storage and generic-to-attribute mapping.
type FieldLocation string

const (
	LocationContact FieldLocation = "contact"
	LocationAddress FieldLocation = "address"
	LocationOrder   FieldLocation = "order"
)

// IsValid checks if the location is a known FieldLocation
func (l FieldLocation) IsValid() bool {
	switch l {
	case LocationContact, LocationAddress, LocationOrder:
		return true
	}
	return false
}

// FieldType is the input kind rendered by the host
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeCheckbox FieldType = "checkbox"
)

// FieldDefinition describes an additional checkout field registered with the
// host. ShowOptionalLabel controls the "(optional)" decoration on the label;
// it is deliberately the inverse of Required: the host renders required
// fields without the overlay.
type FieldDefinition struct {
	ID                string
	Label             string
	Location          FieldLocation
	Type              FieldType
	Required          bool
	ShowOptionalLabel bool
}

// FieldRegistry is the host capability for declaring additional checkout
// fields. The capability may be absent on older hosts; callers must treat a
// nil registry as "feature unavailable" and skip registration.
type FieldRegistry interface {
	Register(def FieldDefinition) error
}

// LocaleField is one entry in the host's locale field sets (the built-in
// address schema, per locale).
type LocaleField struct {
	ID       string
	Hidden   bool
	Required bool
}

// LocaleFilterFunc transforms a locale field set. Filters run over the
// locale-default set and every per-country set.
type LocaleFilterFunc func(fields []LocaleField) []LocaleField

// LocaleFilterRegistry is the host capability for installing locale field
// set transforms.
type LocaleFilterRegistry interface {
	AddDefaultLocaleFilter(f LocaleFilterFunc)
	AddCountryLocaleFilter(f LocaleFilterFunc)
}

// HideFieldFilter returns a filter that marks the given built-in field hidden
// and not required in a locale field set.
func HideFieldFilter(fieldID string) LocaleFilterFunc {
	return func(fields []LocaleField) []LocaleField {
		for i := range fields {
			if fields[i].ID == fieldID {
				fields[i].Hidden = true
				fields[i].Required = false
			}
		}
		return fields
	}
}
