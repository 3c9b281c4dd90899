package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagISODate validates a YYYY-MM-DD calendar date.
const TagISODate = "isodate"

var registerOnce sync.Once

// Register installs the custom rules and JSON field naming on gin's
// binding validator. It is safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		err = Configure(v)
	})
	return err
}

// Configure adds the custom rules to v.
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return fld.Name
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v.RegisterValidation(TagISODate, isoDate)
}

func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len("2006-01-02") {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// FieldErrors turns validation errors into field -> message pairs. ok is
// false when err holds no validation errors.
func FieldErrors(err error) (fields map[string]string, ok bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, false
	}

	fields = make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = message(e)
	}
	return fields, true
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gtefield":
		return fmt.Sprintf("must not be less than %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case TagISODate:
		return "must be a date in YYYY-MM-DD format"
	default:
		return "is invalid"
	}
}
