package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somyu/user-service/internal/api/validation"
)

func fieldsWithErrors(errs []validation.FieldError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateRegisterRequest_Valid(t *testing.T) {
	errs := validation.ValidateRegisterRequest(validation.RegisterRequest{
		FullName: "Ada L",
		Email:    "ada@example.com",
		Password: "longenough1",
	})
	assert.Empty(t, errs)
}

func TestValidateRegisterRequest_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   validation.RegisterRequest
		field string
	}{
		{"missing fullName", validation.RegisterRequest{Email: "a@b.co", Password: "longenough1"}, "fullName"},
		{"blank fullName", validation.RegisterRequest{FullName: "   ", Email: "a@b.co", Password: "longenough1"}, "fullName"},
		{"fullName too long", validation.RegisterRequest{FullName: strings.Repeat("x", 101), Email: "a@b.co", Password: "longenough1"}, "fullName"},
		{"missing email", validation.RegisterRequest{FullName: "Ada", Password: "longenough1"}, "email"},
		{"invalid email", validation.RegisterRequest{FullName: "Ada", Email: "not-an-email", Password: "longenough1"}, "email"},
		{"email too long", validation.RegisterRequest{FullName: "Ada", Email: strings.Repeat("x", 250) + "@example.com", Password: "longenough1"}, "email"},
		{"missing password", validation.RegisterRequest{FullName: "Ada", Email: "a@b.co"}, "password"},
		{"password too short", validation.RegisterRequest{FullName: "Ada", Email: "a@b.co", Password: "short"}, "password"},
		{"password too long", validation.RegisterRequest{FullName: "Ada", Email: "a@b.co", Password: strings.Repeat("x", 129)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validation.ValidateRegisterRequest(tt.req)
			require.NotEmpty(t, errs)
			assert.Contains(t, fieldsWithErrors(errs), tt.field)
		})
	}
}

func TestValidateRegisterRequest_BoundaryLengths(t *testing.T) {
	errs := validation.ValidateRegisterRequest(validation.RegisterRequest{
		FullName: strings.Repeat("x", 100),
		Email:    "a@b.co",
		Password: strings.Repeat("x", 128),
	})
	assert.Empty(t, errs)

	errs = validation.ValidateRegisterRequest(validation.RegisterRequest{
		FullName: "Ada",
		Email:    "a@b.co",
		Password: "eightchr",
	})
	assert.Empty(t, errs)
}

func TestValidateRegisterRequest_CollectsAllErrors(t *testing.T) {
	errs := validation.ValidateRegisterRequest(validation.RegisterRequest{})
	fields := fieldsWithErrors(errs)

	assert.Contains(t, fields, "fullName")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestValidateLoginRequest(t *testing.T) {
	errs := validation.ValidateLoginRequest(validation.LoginRequest{
		Email:    "ada@example.com",
		Password: "whatever",
	})
	assert.Empty(t, errs)

	errs = validation.ValidateLoginRequest(validation.LoginRequest{})
	fields := fieldsWithErrors(errs)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	errs = validation.ValidateLoginRequest(validation.LoginRequest{Email: "nope", Password: "x"})
	assert.Contains(t, fieldsWithErrors(errs), "email")
}
