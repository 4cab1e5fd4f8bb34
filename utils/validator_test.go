package utils

import (
	"strings"
	"testing"
)

type signupPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=creator user"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(&signupPayload{Email: "a@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	err := ValidateStruct(&signupPayload{Email: "nope", Password: "123", Role: "admin"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"field email must be a valid email", "field password must be at least 6", "field role must be one of [creator user]"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q does not contain %q", msg, want)
		}
	}
}
