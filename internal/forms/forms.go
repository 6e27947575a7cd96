// Package forms validates submitted HTML forms. Every input shape has a pure
// Validate function that turns raw url.Values into a model or field errors.
package forms

import (
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// FieldErrors maps a form field name to its error message
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error
func (e FieldErrors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Valid reports whether no field failed
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

var (
	decoder  *form.Decoder
	validate *validator.Validate

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	maxPrice        = decimal.New(1, 8)
)

func init() {
	decoder = form.NewDecoder()

	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the form field name rather than the Go field name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister("money", func(fl validator.FieldLevel) bool {
		_, ok := parseMoney(fl.Field().String())
		return ok
	})
	mustRegister("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister("order_status", func(fl validator.FieldLevel) bool {
		return domain.OrderStatus(fl.Field().String()).IsValid()
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// parseMoney accepts non-negative amounts with at most two decimal places
// that fit in DECIMAL(10, 2)
func parseMoney(raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, false
	}
	if amount.IsNegative() || amount.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, false
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, false
	}
	return amount, true
}

// bind decodes raw into dst and validates it. Decode failures (such as a
// non-numeric rating) are reported as field errors alongside validation ones.
func bind(raw url.Values, dst interface{}) FieldErrors {
	errs := FieldErrors{}

	if err := decoder.Decode(dst, raw); err != nil {
		if decodeErrors, ok := err.(form.DecodeErrors); ok {
			for field := range decodeErrors {
				errs.Add(field, "Enter a valid value")
			}
		} else {
			errs.Add("__all__", "Malformed form submission")
			return errs
		}
	}

	trimStrings(dst)

	if err := validate.Struct(dst); err != nil {
		for field, msg := range FormatValidationErrors(err) {
			errs.Add(field, msg)
		}
	}

	return errs
}

// trimStrings strips surrounding whitespace from every string field of the
// struct dst points to, so required rejects blank input. Fields tagged
// trim:"false" keep their value as typed.
func trimStrings(dst interface{}) {
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() != reflect.String || !field.CanSet() || t.Field(i).Tag.Get("trim") == "false" {
			continue
		}
		field.SetString(strings.TrimSpace(field.String()))
	}
}

// FormatValidationErrors converts validator errors to per-field messages
func FormatValidationErrors(err error) FieldErrors {
	errs := FieldErrors{}

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			// Slice elements report as field[i]; attribute them to the field
			if i := strings.IndexByte(field, '['); i >= 0 {
				field = field[:i]
			}
			errs.Add(field, getErrorMessage(e))
		}
	}

	return errs
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "eqfield":
		return "Passwords do not match."
	case "money":
		return "Enter a non-negative amount with at most two decimal places"
	case "username":
		return "Letters, digits and @/./+/-/_ only"
	case "order_status", "oneof":
		return "Select a valid choice"
	case "uuid":
		return "Invalid identifier"
	case "min":
		if e.Kind() == reflect.Slice {
			return "Select at least " + e.Param() + " item"
		}
		return "Ensure this value has at least " + e.Param() + " characters"
	case "max":
		return "Ensure this value has at most " + e.Param() + " characters"
	case "gte":
		return "Ensure this value is greater than or equal to " + e.Param()
	case "lte":
		return "Ensure this value is less than or equal to " + e.Param()
	default:
		return "Invalid value"
	}
}
