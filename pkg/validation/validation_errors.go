package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"Username":         "Username",
	"Email":            "Email",
	"Mobile":           "Mobile number",
	"Password":         "Password",
	"NewPassword":      "New password",
	"Token":            "Token",
	"Code":             "Code",
	"SkillName":        "Skill name",
	"ProficiencyLevel": "Proficiency level",
	"ApplicationID":    "Application id",
	"Status":           "Status",
	"RejectionMessage": "Rejection message",
	"Title":            "Title",
	"Description":      "Description",
	"ExperienceLevel":  "Experience level",
	"Location":         "Location",
	"Skills":           "Skills",
	"JobID":            "Job id",
}

// FormatValidationErrors converts validator.ValidationErrors to readable messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins FormatValidationErrors into a single line.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "not_blank":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "valid_mobile":
		return fmt.Sprintf("%s must be exactly 10 digits", label)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", label)
	case "proficiency":
		return fmt.Sprintf("%s must be between %d and %d", label, MinProficiency, MaxProficiency)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}
