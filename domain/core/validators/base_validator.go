package validators

import (
	"regexp"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"yti-common/pkg/common"
	pkgerrors "yti-common/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// engine returns the shared validator with the pattern tags registered.
func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		for tag, pattern := range map[string]string{
			"prefix":      PrefixRegex,
			"identifier":  ResourceIdentifierRegex,
			"languagetag": LanguageTagRegex,
		} {
			re := regexp.MustCompile(pattern)
			_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return re.MatchString(fl.Field().String())
			})
		}
	})
	return validate
}

// matches reports whether value passes the validator tag.
func matches(value, tag string) bool {
	return engine().Var(value, tag) == nil
}

// BaseValidator accumulates violations. The zero value is ready to use and
// a validator is meant for a single payload.
type BaseValidator struct {
	violations *pkgerrors.ValidationErrors
}

// AddViolation records message for property.
func (v *BaseValidator) AddViolation(message, property string) {
	if v.violations == nil {
		v.violations = pkgerrors.NewValidationErrors()
	}
	v.violations.Add(message, property)
}

// HasViolations reports whether anything was recorded.
func (v *BaseValidator) HasViolations() bool {
	return v.violations != nil && v.violations.HasErrors()
}

// Result returns the collected violations or nil.
func (v *BaseValidator) Result() *pkgerrors.ValidationErrors {
	if !v.HasViolations() {
		return nil
	}
	return v.violations
}

// Err is Result as an error value.
func (v *BaseValidator) Err() error {
	if r := v.Result(); r != nil {
		return r
	}
	return nil
}

// CheckRequiredLocalizedValue requires at least one non blank value and
// checks the length of every value.
func (v *BaseValidator) CheckRequiredLocalizedValue(value map[string]string, property string) {
	if len(value) == 0 {
		v.AddViolation(MsgValueMissing, property)
		return
	}
	for _, s := range value {
		if common.IsBlank(s) {
			v.AddViolation(MsgValueMissing, property)
			return
		}
	}
	for _, s := range value {
		v.CheckCommonTextField(s, property)
	}
}

func (v *BaseValidator) CheckCommonTextField(value, property string) {
	if utf8.RuneCountInString(value) > TextFieldMaxLength {
		v.AddViolation(MsgOverCharacterLimit+strconv.Itoa(TextFieldMaxLength), property)
	}
}

func (v *BaseValidator) CheckCommonTextArea(value, property string) {
	if utf8.RuneCountInString(value) > TextAreaMaxLength {
		v.AddViolation(MsgOverCharacterLimit+strconv.Itoa(TextAreaMaxLength), property)
	}
}

// CheckNotNull flags a nil value.
func (v *BaseValidator) CheckNotNull(value any, property string) {
	if value == nil {
		v.AddViolation(MsgValueMissing, property)
	}
}

func (v *BaseValidator) CheckHasValue(value, property string) {
	if common.IsBlank(value) {
		v.AddViolation(MsgValueMissing, property)
	}
}

// CheckResourceIdentifier validates the identifier of a new resource. An
// identifier may not be given on update.
func (v *BaseValidator) CheckResourceIdentifier(value string, update bool) {
	const property = "identifier"
	switch {
	case value != "" && update:
		v.AddViolation(MsgNotAllowedUpdate, property)
	case value == "" && !update:
		v.AddViolation(MsgValueMissing, property)
	case value == "":
	case len(value) < PrefixMinLength || len(value) > PrefixMaxLength:
		v.AddViolation(property+"-character-count-mismatch", property)
	case !matches(value, "identifier"):
		v.AddViolation(MsgValueInvalid, property)
	}
}
