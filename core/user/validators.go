package user

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/edutrack/core"
)

var (
	roleTag  = "role"
	roleText = "role must be one of admin, teacher or student"

	secQuestionTag  = "secquestion"
	secQuestionText = "unknown security question"

	// password policy
	pwdMinLen     = 5
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must be more than %d characters", pwdMinLen-1)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to the username"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(roleTag, roleText)
	_ = core.Validate.RegisterValidation(secQuestionTag, secQuestionValidation)
	core.RegisterCustomTranslation(secQuestionTag, secQuestionText)

	core.Validate.RegisterStructValidation(userStructValidation, NewUser{}, PasswordChange{})
	core.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// Custom Validators

func roleValidation(fl validator.FieldLevel) bool {
	return IsRole(fl.Field().String())
}

func secQuestionValidation(fl validator.FieldLevel) bool {
	q := fl.Field().String()
	for _, sq := range SecurityQuestions {
		if q == sq {
			return true
		}
	}
	return false
}

// userStructValidation applies the password policy on NewUser and PasswordChange structs.
func userStructValidation(sl validator.StructLevel) {
	switch usr := sl.Current().Interface().(type) {
	case NewUser:
		validatePassword(usr.Password, usr.Username, sl)
	case PasswordChange:
		validatePassword(usr.Password, usr.Username, sl)
	}
}

// validatePassword applies the password policy to provided password:
// - more than 4 characters
// - no whitespace
// - no username similarity
func validatePassword(pwd, uname string, sl validator.StructLevel) {
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	if pwd == "" {
		return // reported by `required`
	}
	if len([]rune(pwd)) < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
	}
	if uname != "" {
		ratio := difflib.NewMatcher(strings.Split(pwd, ""), strings.Split(uname, "")).QuickRatio()
		if ratio >= pwdMaxSim {
			reportErr(pwdAttrSimTag)
		}
	}
}
