package validation

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Proficiency bounds for user skills.
const (
	MinProficiency = 1
	MaxProficiency = 10
)

var (
	mobileRegex = regexp.MustCompile(`^[0-9]{10}$`)
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_mobile", ValidMobile)
	_ = v.RegisterValidation("proficiency", ValidProficiency)
	_ = v.RegisterValidation("not_blank", NotBlank)
}

// RegisterGinValidators attaches the custom tags to gin's binding engine.
func RegisterGinValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// ValidMobile accepts exactly ten digits.
func ValidMobile(fl validator.FieldLevel) bool {
	return mobileRegex.MatchString(fl.Field().String())
}

func ValidProficiency(fl validator.FieldLevel) bool {
	level := fl.Field().Int()
	return level >= MinProficiency && level <= MaxProficiency
}

func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// IsEmail is the loose shape check used outside struct binding.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

func IsMobile(s string) bool {
	return mobileRegex.MatchString(s)
}
