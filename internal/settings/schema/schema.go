package schema

import (
	"encoding/json"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema/schemaerr"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema/schemavalidator"
	"github.com/mugiliam/hatchsettingsrv/pkg/types"
	"sigs.k8s.io/yaml"
)

// Descriptor declares one setting key: its recognized type name, the value
// used when no stored value exists, whether the setting holds a sequence,
// optional bounds, and an optional column definition consumed only by the
// relational storage gateway.
type Descriptor struct {
	Type    string            `json:"type" validate:"required,settingTypeValidator"`
	Default types.NullableAny `json:"default"`
	Array   bool              `json:"array"`
	Min     *float64          `json:"min,omitempty" validate:"omitnil"`
	Max     *float64          `json:"max,omitempty" validate:"omitnil"`
	SQL     string            `json:"sql,omitempty"`
}

// Schema maps setting keys to their descriptors. A nil or empty Schema is
// valid and denotes a domain with no declared settings beyond what the
// gateway itself manages.
type Schema map[string]Descriptor

var validSettingTypes = []string{
	string(types.SettingTypeString),
	string(types.SettingTypeInteger),
	string(types.SettingTypeFloat),
	string(types.SettingTypeBoolean),
	string(types.SettingTypeLanguage),
	string(types.SettingTypeCommand),
	string(types.SettingTypeTenant),
	string(types.SettingTypeUser),
}

func settingTypeValidator(fl validator.FieldLevel) bool {
	settingType := fl.Field().String()
	for _, validType := range validSettingTypes {
		if settingType == validType {
			return true
		}
	}
	return false
}

func (d *Descriptor) Validate(key string) schemaerr.ValidationErrors {
	var ves schemaerr.ValidationErrors
	if !schemavalidator.ValidateDomainName(key) {
		ves = append(ves, schemaerr.ErrInvalidNameFormat(key, key))
	}
	err := schemavalidator.V().Struct(d)
	if err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return append(ves, schemaerr.ErrInvalidFieldSchema(key))
		}
		for _, e := range ve {
			switch e.Tag() {
			case "required":
				ves = append(ves, schemaerr.ErrMissingRequiredAttribute(key+".type"))
			case "settingTypeValidator":
				val, _ := e.Value().(string)
				ves = append(ves, schemaerr.ErrUnsupportedSettingType(key+".type", val))
			default:
				ves = append(ves, schemaerr.ErrValidationFailed(key+"."+e.Field()))
			}
		}
		return ves
	}
	if d.Min != nil && d.Max != nil && *d.Max < *d.Min {
		ves = append(ves, schemaerr.ErrMaxLessThanMin(key, *d.Min, *d.Max))
	}
	if !d.Default.IsNil() {
		isSlice := reflect.ValueOf(d.Default.Value).Kind() == reflect.Slice
		if isSlice != d.Array {
			ves = append(ves, schemaerr.ErrDefaultShapeMismatch(key, d.Default.Value))
		}
	}
	return ves
}

// Validate checks every descriptor for well-formedness. It does not verify
// that the declared type names are resolvable; the registry does that
// against its resolver at registration time.
func (s Schema) Validate() schemaerr.ValidationErrors {
	var ves schemaerr.ValidationErrors
	for key, desc := range s {
		d := desc
		ves = append(ves, d.Validate(key)...)
	}
	return ves
}

// Defaults returns a fresh record populated with each key's default value.
func (s Schema) Defaults() map[string]any {
	record := make(map[string]any, len(s))
	for key, desc := range s {
		if desc.Default.IsNil() {
			if desc.Array {
				record[key] = []any{}
			} else {
				record[key] = nil
			}
			continue
		}
		record[key] = desc.Default.Value
	}
	return record
}

// Keys returns the declared setting keys.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	return keys
}

// ParseJSON decodes a schema declaration. The declaration must be a plain
// key to descriptor mapping; anything else is rejected.
func ParseJSON(data []byte) (Schema, schemaerr.ValidationErrors) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, schemaerr.ValidationErrors{schemaerr.ErrInvalidSchema}
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, schemaerr.ValidationErrors{schemaerr.ErrInvalidSchema}
	}
	s := Schema{}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, schemaerr.ValidationErrors{schemaerr.ErrInvalidSchema}
	}
	if ves := s.Validate(); ves != nil {
		return nil, ves
	}
	return s, nil
}

// ParseYAML decodes a schema declaration written in YAML.
func ParseYAML(data []byte) (Schema, schemaerr.ValidationErrors) {
	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, schemaerr.ValidationErrors{schemaerr.ErrInvalidSchema}
	}
	return ParseJSON(j)
}

func init() {
	schemavalidator.V().RegisterValidation("settingTypeValidator", settingTypeValidator)
}
