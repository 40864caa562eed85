package types

import (
	"bytes"
	"encoding/json"
)

// NullableAny carries a setting value that may legitimately be null.
// A null default in a schema descriptor is distinct from an absent one.
type NullableAny struct {
	Value any
	Valid bool // Valid is false if the value is null
}

func Nil() NullableAny {
	return NullableAny{}
}

func AnyOf(value any) NullableAny {
	if value == nil {
		return NullableAny{}
	}
	return NullableAny{Value: value, Valid: true}
}

func (ns NullableAny) IsNil() bool {
	return !ns.Valid
}

func (ns *NullableAny) Set(value any) {
	ns.Value = value
	ns.Valid = value != nil
}

var _ json.Marshaler = &NullableAny{}
var _ json.Unmarshaler = &NullableAny{}
var _ Nullable = &NullableAny{}

func (ns NullableAny) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.Value)
	}
	return json.Marshal(nil)
}

func (ns *NullableAny) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		ns.Value = nil
		ns.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &ns.Value); err != nil {
		return err
	}
	ns.Valid = true
	return nil
}
