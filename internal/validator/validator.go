package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/gradebook/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator checks the structure of commands before they reach the gradebook.
// It deliberately stops at well-formedness: names present, counts non-negative.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a validator with the gradebook's custom rules registered.
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags and converts failures to ValidationErrors.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Validate is an alias of ValidateStruct kept for call-site symmetry with the services.
func (v *Validator) Validate(s interface{}) error {
	return v.ValidateStruct(s)
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("category_name", validateCategoryName)
	validate.RegisterValidation("sort_key", validateSortKey)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateCategoryName(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateSortKey(fl validator.FieldLevel) bool {
	validKeys := []models.SortKey{
		models.SortNameAsc,
		models.SortNameDesc,
		models.SortGradeAsc,
		models.SortGradeDesc,
	}

	value := fl.Field().String()
	for _, key := range validKeys {
		if string(key) == value {
			return true
		}
	}
	return false
}
