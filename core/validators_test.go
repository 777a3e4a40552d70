package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestNewValidator(t *testing.T) {
	validRole := func(role string) bool { return role == "admin" || role == "teacher" }
	validate, translator := NewValidator(validRole)

	type form struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,schoolrole"`
	}

	t.Run("valid input passes", func(t *testing.T) {
		assert.NoError(t, validate.Struct(&form{Email: "jane@school.test", Role: "teacher"}))
	})

	t.Run("errors use json field names and custom texts", func(t *testing.T) {
		err := validate.Struct(&form{Role: "janitor"})
		assert.Error(t, err)

		fldErrs := map[string]string{}
		for _, vErr := range err.(validator.ValidationErrors) {
			fldErrs[vErr.Field()] = vErr.Translate(translator)
		}
		assert.Equal(t, "this field is required", fldErrs["email"])
		assert.Equal(t, "invalid role", fldErrs["role"])
	})
}

func TestCleanString(t *testing.T) {
	tests := []struct {
		in    string
		lower bool
		want  string
	}{
		{"  Jane@School.Test  ", true, "jane@school.test"},
		{"  Jane  ", false, "Jane"},
		{"\tmixed Case\n", true, "mixed case"},
		{"", true, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanString(tt.in, tt.lower))
	}
}
