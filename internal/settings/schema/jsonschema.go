package schema

import (
	"encoding/json"

	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema/schemaerr"
	"github.com/mugiliam/hatchsettingsrv/pkg/types"
	"github.com/xeipuuv/gojsonschema"
)

// jsonType maps a recognized setting type to its JSON Schema primitive.
// Reference-valued settings (Command, Tenant, User) are stored by identifier.
func jsonType(settingType string) string {
	switch types.SettingType(settingType) {
	case types.SettingTypeInteger:
		return "integer"
	case types.SettingTypeFloat:
		return "number"
	case types.SettingTypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// JSONSchema renders the domain schema as a JSON Schema document used to
// check raw record documents before they are accepted.
func (s Schema) JSONSchema() ([]byte, error) {
	properties := make(map[string]any, len(s))
	for key, desc := range s {
		var prop map[string]any
		if desc.Array {
			prop = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": jsonType(desc.Type)},
			}
			if desc.Min != nil {
				prop["minItems"] = int(*desc.Min)
			}
			if desc.Max != nil {
				prop["maxItems"] = int(*desc.Max)
			}
		} else {
			// scalar settings may be reset to null
			jt := jsonType(desc.Type)
			prop = map[string]any{
				"type": []string{jt, "null"},
			}
			switch jt {
			case "integer", "number":
				if desc.Min != nil {
					prop["minimum"] = *desc.Min
				}
				if desc.Max != nil {
					prop["maximum"] = *desc.Max
				}
			case "string":
				if desc.Min != nil {
					prop["minLength"] = int(*desc.Min)
				}
				if desc.Max != nil {
					prop["maxLength"] = int(*desc.Max)
				}
			}
		}
		properties[key] = prop
	}
	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	return json.Marshal(doc)
}

// ValidateRecord checks a raw record document against the schema.
func (s Schema) ValidateRecord(record []byte) schemaerr.ValidationErrors {
	schemaDoc, err := s.JSONSchema()
	if err != nil {
		return schemaerr.ValidationErrors{schemaerr.ErrInvalidFieldSchema("")}
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaDoc),
		gojsonschema.NewBytesLoader(record),
	)
	if err != nil {
		return schemaerr.ValidationErrors{schemaerr.ErrValidationFailed("", err.Error())}
	}
	if result.Valid() {
		return nil
	}
	var ves schemaerr.ValidationErrors
	for _, desc := range result.Errors() {
		ves = append(ves, schemaerr.ValidationError{
			Field:  desc.Field(),
			ErrStr: desc.Description(),
		})
	}
	return ves
}
