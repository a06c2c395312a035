package utils

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidations installs the custom rules on gin's binding validator
// and reports fields by their query/json name. Safe to call repeatedly.
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterValidation("finite", validateFinite)

		v.RegisterTagNameFunc(fieldName)
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// validateFinite rejects NaN and ±Inf, which encoding/json cannot render.
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value,omitempty"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

func FormatValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, fe := range validatorErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fe.Field(),
				Value:   derefValue(fe.Value()),
				Tag:     fe.Tag(),
				Message: getErrorMessage(fe),
			})
		}
	}

	return validationErrors
}

// FormatBindingError turns any error returned by gin's query binding into
// field errors. Parse failures carry no field name, so the field is
// recovered by matching the rejected text against the query values of
// names, checked in order.
func FormatBindingError(err error, query url.Values, names ...string) []ValidationError {
	if fields := FormatValidationErrors(err); len(fields) > 0 {
		return fields
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		field := ""
	search:
		for _, name := range names {
			for _, v := range query[name] {
				if v == numErr.Num {
					field = name
					break search
				}
			}
		}
		return []ValidationError{{
			Field:   field,
			Value:   numErr.Num,
			Tag:     "number",
			Message: fmt.Sprintf("%s must be a valid number, got %q", orValue(field, "value"), numErr.Num),
		}}
	}

	return []ValidationError{{Tag: "invalid", Message: err.Error()}}
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "finite":
		return fmt.Sprintf("%s must be a finite number", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}

func derefValue(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	return v
}

func orValue(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// RejectMalformedNumbers reports numeric parameters that strconv.ParseFloat
// would accept but a plain decimal reader would not: blank values, which gin
// binds as zero, and hexadecimal floats such as 0x1p-2.
func RejectMalformedNumbers(query url.Values, names ...string) []ValidationError {
	var errs []ValidationError
	for _, name := range names {
		for _, v := range query[name] {
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				errs = append(errs, ValidationError{
					Field:   name,
					Tag:     "required",
					Message: fmt.Sprintf("%s is required", name),
				})
				break
			}
			if isHexFloat(trimmed) {
				errs = append(errs, ValidationError{
					Field:   name,
					Value:   v,
					Tag:     "number",
					Message: fmt.Sprintf("%s must be a valid number, got %q", name, v),
				})
				break
			}
		}
	}
	return errs
}

func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
