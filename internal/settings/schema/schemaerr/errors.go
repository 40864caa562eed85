package schemaerr

import "strings"

type ValidationError struct {
	Field  string `json:"field"`
	Value  any    `json:"value,omitempty"`
	ErrStr string `json:"error"`
}

func (v ValidationError) Error() string {
	if v.Field == "" {
		return v.ErrStr
	}
	return v.Field + ": " + v.ErrStr
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	errs := make([]string, 0, len(v))
	for _, e := range v {
		errs = append(errs, e.Error())
	}
	return strings.Join(errs, "; ")
}

func InQuotes(s string) string {
	return "'" + s + "'"
}

var ErrInvalidSchema = ValidationError{ErrStr: "invalid schema"}

func ErrMissingRequiredAttribute(attr string, value ...any) ValidationError {
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: "missing required attribute",
	}
}

func ErrInvalidNameFormat(attr string, value ...string) ValidationError {
	var errStr string
	if len(value) == 0 {
		errStr = "invalid name format; allowed characters: [A-Za-z0-9_-]"
	} else {
		errStr = "invalid name format " + InQuotes(value[0]) + "; allowed characters: [A-Za-z0-9_-]"
	}
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: errStr,
	}
}

func ErrUnsupportedSettingType(attr string, value ...string) ValidationError {
	var errStr string
	if len(value) == 0 {
		errStr = "unsupported setting type"
	} else {
		errStr = "unsupported setting type " + InQuotes(value[0])
	}
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: errStr,
	}
}

func ErrDefaultShapeMismatch(attr string, value ...any) ValidationError {
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: "default value does not match the declared array shape",
	}
}

func ErrMaxLessThanMin(attr string, value ...any) ValidationError {
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: "max must be greater than or equal to min",
	}
}

func ErrValidationFailed(attr string, value ...any) ValidationError {
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: "validation failed",
	}
}

func ErrInvalidFieldSchema(attr string, value ...any) ValidationError {
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: "invalid schema",
	}
}
