package validation

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterRequest mirrors the fields needed for registration validation.
type RegisterRequest struct {
	FullName string
	Email    string
	Password string
}

// ValidateRegisterRequest validates the fields of a registration
// request. Returns a slice of field errors; empty means valid.
func ValidateRegisterRequest(req RegisterRequest) []FieldError {
	var errs []FieldError

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		errs = append(errs, FieldError{Field: "fullName", Message: "fullName is required"})
	} else if len(fullName) > 100 {
		errs = append(errs, FieldError{Field: "fullName", Message: "fullName must be at most 100 characters"})
	}

	errs = append(errs, validateEmail(req.Email)...)

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if len(req.Password) < 8 || len(req.Password) > 128 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be between 8 and 128 characters"})
	}

	return errs
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, validateEmail(req.Email)...)

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

func validateEmail(email string) []FieldError {
	var errs []FieldError

	email = strings.TrimSpace(email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if len(email) > 255 {
		errs = append(errs, FieldError{Field: "email", Message: "email must be at most 255 characters"})
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid email address"})
	}

	return errs
}
