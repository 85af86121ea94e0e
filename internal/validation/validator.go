// Package validation runs the declarative field rules attached to request and model
// structs through go-playground/validator and turns failures into one message per field.
//
// Rules are plain struct tags:
//
//	type CreateComplaintRequest struct {
//	    Title    string   `json:"title" validate:"required,min=5,max=100"`
//	    Category Category `json:"category" validate:"required,enum"`
//	}
//
// Besides the built-in tags the validator knows:
//   - enum: the field implements Enum and must be one of its values
//   - notpast / notfuture: calendar-day comparisons for time.Time fields
//   - hhmm: a 24h "HH:MM" clock time
//   - phone: 10 to 15 digits with an optional leading +
//   - contact: an email address or a phone number
//   - notblank: a string with at least one non-space character
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Enum is implemented by closed string types such as meal types or statuses.
type Enum interface {
	Valid() bool
	Values() []string
}

var (
	validate     *validator.Validate
	validateOnce sync.Once

	hhmmPattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// RequestValidationError collects one message per failing field.
type RequestValidationError struct {
	messages []string
}

// NewError builds a validation error from ready-made messages, for rules that live
// outside struct tags (uniqueness, status workflows).
func NewError(messages ...string) *RequestValidationError {
	return &RequestValidationError{messages: messages}
}

// Messages returns the accumulated messages in field order.
func (ve *RequestValidationError) Messages() []string {
	return ve.messages
}

func (ve *RequestValidationError) Error() string {
	if len(ve.messages) == 0 {
		return "validation failed"
	}
	return strings.Join(ve.messages, "; ")
}

// AsValidationError unwraps err into a *RequestValidationError if it is one.
func AsValidationError(err error) (*RequestValidationError, bool) {
	var ve *RequestValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names so messages match what clients send
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister(v, "enum", isEnum)
		mustRegister(v, "notpast", notPast)
		mustRegister(v, "notfuture", notFuture)
		mustRegister(v, "hhmm", func(fl validator.FieldLevel) bool {
			return hhmmPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "contact", isContact)
		mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func isEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(Enum)
	return ok && e.Valid()
}

func fieldTime(fl validator.FieldLevel) (time.Time, bool) {
	t, ok := fl.Field().Interface().(time.Time)
	return t, ok
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func notPast(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	if !ok {
		return false
	}
	return !t.Local().Before(startOfDay(time.Now()))
}

func notFuture(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	if !ok {
		return false
	}
	return t.Local().Before(startOfDay(time.Now()).AddDate(0, 0, 1))
}

func isContact(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if phonePattern.MatchString(s) {
		return true
	}
	return GetValidator().Var(s, "email") == nil
}

// ValidateStruct validates s and returns nil or a *RequestValidationError.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, translateError(fe))
	}
	return NewError(messages...)
}

// FieldErrors validates s and keeps the first message per field, keyed by the
// field path clients use ("items[0]", "specialItems[1].name"). It returns nil when s is valid.
func FieldErrors(s interface{}) map[string]string {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fieldPath(fe)
		if _, seen := out[path]; !seen {
			out[path] = translateError(fe)
		}
	}
	return out
}

// fieldPath drops the top-level struct name: "CreateMenuRequest.specialItems[0].name"
// becomes "specialItems[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var errorMessageTemplates = map[string]string{
	"required":  "%s is required",
	"email":     "%s must be a valid email address",
	"uuid":      "%s must be a valid id",
	"uuid4":     "%s must be a valid id",
	"notpast":   "%s cannot be in the past",
	"notfuture": "%s cannot be in the future",
	"hhmm":      "%s must be a time in HH:MM format",
	"phone":     "%s must be a valid phone number",
	"contact":   "%s must be an email address or phone number",
	"notblank":  "%s cannot be blank",
	"url":       "%s must be a valid URL",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field := fieldPath(fe)
	tag := fe.Tag()
	param := fe.Param()

	if tmpl, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(tmpl, field, param)
	}

	switch tag {
	case "enum":
		if e, ok := fe.Value().(Enum); ok {
			return fmt.Sprintf("%s must be one of: %s", field, strings.Join(e.Values(), ", "))
		}
		return fmt.Sprintf("%s has an invalid value", field)
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", field, lowerFirst(param))
	}
	return translateMinMax(fe, field, tag, param)
}

func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	var unit string
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	}

	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	case "len":
		return fmt.Sprintf("%s must be exactly %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
