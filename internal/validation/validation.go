// Package validation wraps go-playground/validator for request schemas,
// reporting failures as VALIDATION_ERROR domain errors keyed by JSON field path.
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"migration-estimator/internal/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// gt/lt on decimals compare the numeric value
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			d, ok := v.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			f, _ := d.Float64()
			return f
		}, decimal.Decimal{})
	})
	return validate
}

// Struct validates v against its `validate` tags
func Struct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Validation("invalid request", err)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe)] = describe(fe)
	}

	paths := make([]string, 0, len(fields))
	for path := range fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	msgs := make([]string, 0, len(paths))
	for _, path := range paths {
		msgs = append(msgs, path+" "+fields[path])
	}

	return errors.New(errors.TypeValidation, strings.Join(msgs, "; ")).
		WithContext("fields", fields)
}

// fieldPath drops the root struct name: "SubmissionForm.customer_info.email" -> "customer_info.email"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s long", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
