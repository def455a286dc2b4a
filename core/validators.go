package core

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	ErrInvalidInput = errors.New("invalid input")

	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"

	noColonTag  = "nocolon"
	noColonText = "{0} must not contain ':'"

	dateDMYTag  = "ddmmyyyy"
	dateDMYText = "{0} must be a valid date in DD/MM/YYYY format"

	subjectCodeTag   = "subjectcode"
	subjectCodeText  = "{0} must contain only letters, digits and underscores"
	subjectCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	requiredTag  = "required"
	requiredText = "{0} is required"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(notBlankTag, notBlankText)
	_ = Validate.RegisterValidation(noColonTag, noColonValidation)
	RegisterCustomTranslation(noColonTag, noColonText)
	_ = Validate.RegisterValidation(dateDMYTag, dateDMYValidation)
	RegisterCustomTranslation(dateDMYTag, dateDMYText)
	_ = Validate.RegisterValidation(subjectCodeTag, subjectCodeValidation)
	RegisterCustomTranslation(subjectCodeTag, subjectCodeText)

	RegisterCustomTranslation(requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateStruct runs the validator on `s` and converts its errors into a *ValidationError
// carrying one translated FieldError per failing field.
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	msgs := make([]string, 0, len(vErrs))
	for _, vErr := range vErrs {
		msg := vErr.Translate(Translator)
		flds = append(flds, FieldError{Field: vErr.Field(), Error: msg})
		msgs = append(msgs, msg)
	}
	return NewValidationError(errors.Wrap(ErrInvalidInput, strings.Join(msgs, "; ")), flds...)
}

// Custom Global Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func noColonValidation(fl validator.FieldLevel) bool {
	return !strings.Contains(fl.Field().String(), ":")
}

func dateDMYValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse(DayMonthYear, fl.Field().String())
	return err == nil
}

func subjectCodeValidation(fl validator.FieldLevel) bool {
	return subjectCodeRegex.MatchString(fl.Field().String())
}
