// Package validation checks and normalizes contact-form input before it
// reaches the service layer. All violations are collected, not just the
// first, so the caller can report every bad field at once.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// namePattern allows letters, spaces, hyphens, and apostrophes.
var namePattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

func init() {
	_ = validate.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})
	// Report violations under the JSON field name, not the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// SubmissionInput is the raw contact-form payload. Call Normalize before
// Validate so length and pattern rules see the trimmed values.
type SubmissionInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100,person_name"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,min=3,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// Normalize trims whitespace from all fields and lowercases the email.
func (in *SubmissionInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
}

// FieldError is a single validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate returns all violations in field declaration order, or nil
// when the input is valid. It never returns an error for expected bad
// input.
func Validate(in *SubmissionInput) []FieldError {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Struct-level misuse, not user input; treat as a single opaque violation.
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// message maps a failed rule to the user-facing text for its field.
func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		switch fe.Tag() {
		case "required":
			return "Name is required"
		case "min", "max":
			return "Name must be between 2 and 100 characters"
		case "person_name":
			return "Name can only contain letters, spaces, hyphens, and apostrophes"
		}
	case "email":
		switch fe.Tag() {
		case "required":
			return "Email is required"
		case "email":
			return "Please provide a valid email address"
		case "max":
			return "Email cannot exceed 255 characters"
		}
	case "subject":
		switch fe.Tag() {
		case "required":
			return "Subject is required"
		case "min", "max":
			return "Subject must be between 3 and 200 characters"
		}
	case "message":
		switch fe.Tag() {
		case "required":
			return "Message is required"
		case "min", "max":
			return "Message must be between 10 and 5000 characters"
		}
	}
	return "Invalid value"
}
