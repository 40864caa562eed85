package schemavalidator

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	v    *validator.Validate
	once sync.Once
)

// V returns the process-wide validator instance used for schema structs.
func V() *validator.Validate {
	once.Do(func() {
		v = validator.New()
	})
	return v
}

const nameRegex = `^[A-Za-z0-9_-]+$`

// nameFormatValidator checks if the given name is alphanumeric with underscores and hyphens.
func nameFormatValidator(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(nameRegex)
	return re.MatchString(fl.Field().String())
}

func noSpacesValidator(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[^\s]+$`)
	return re.MatchString(fl.Field().String())
}

// ValidateDomainName checks if the given domain or setting key name is
// well formed.
func ValidateDomainName(name string) bool {
	re := regexp.MustCompile(nameRegex)
	return re.MatchString(name)
}

func init() {
	V().RegisterValidation("nameFormatValidator", nameFormatValidator)
	V().RegisterValidation("noSpacesValidator", noSpacesValidator)
}
