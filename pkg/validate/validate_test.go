package validate_test

import (
	"testing"

	"github.com/dnguyen-dev/bistro/pkg/validate"
)

type registerInput struct {
	Name                 string `json:"name"                  validate:"required,max=100"`
	Email                string `json:"email"                 validate:"required,email"`
	Phone                string `json:"phone"                 validate:"required,digits=9..11"`
	Password             string `json:"password"              validate:"required,min=6,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:                 "Nguyen Van A",
		Email:                "a@example.com",
		Phone:                "0912345678",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "email", "phone", "password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); len(errs) == 0 {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); len(errs) != 0 {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestPasswordTooShort(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:                 "A",
		Email:                "a@example.com",
		Phone:                "0912345678",
		Password:             "12345",
		PasswordConfirmation: "12345",
	})
	if _, ok := errs["password"]; !ok {
		t.Error("expected password shorter than 6 chars to fail")
	}
}

func TestConfirmationMismatch(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:                 "A",
		Email:                "a@example.com",
		Phone:                "0912345678",
		Password:             "secret1",
		PasswordConfirmation: "secret2",
	})
	if _, ok := errs["password"]; !ok {
		t.Error("expected mismatched confirmation to fail")
	}
}

func TestDigitsRange(t *testing.T) {
	type in struct {
		Phone string `json:"phone" validate:"required,digits=9..11"`
	}
	if errs := validate.Struct(in{Phone: "12ab"}); len(errs) == 0 {
		t.Error("expected non-digit phone to fail")
	}
	if errs := validate.Struct(in{Phone: "12345678"}); len(errs) == 0 {
		t.Error("expected 8-digit phone to fail")
	}
	if errs := validate.Struct(in{Phone: "0912345678"}); len(errs) != 0 {
		t.Errorf("expected 10-digit phone to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Guests int `json:"guests" validate:"required,gte=1,lte=10"`
	}
	if errs := validate.Struct(in{Guests: 11}); len(errs) == 0 {
		t.Error("expected guests > 10 to fail")
	}
	if errs := validate.Struct(in{Guests: 4}); len(errs) != 0 {
		t.Errorf("expected guests 4 to pass, got: %v", errs)
	}
}

func TestNullableSkipsEmpty(t *testing.T) {
	type in struct {
		Notes string `json:"notes" validate:"nullable,max=500"`
	}
	if errs := validate.Struct(in{}); len(errs) != 0 {
		t.Errorf("expected empty nullable field to pass, got: %v", errs)
	}
}

func TestDateRule(t *testing.T) {
	type in struct {
		Date string `json:"date" validate:"required,date"`
	}
	if errs := validate.Struct(in{Date: "not a date"}); len(errs) == 0 {
		t.Error("expected invalid date to fail")
	}
	if errs := validate.Struct(in{Date: "2026-09-01"}); len(errs) != 0 {
		t.Errorf("expected ISO date to pass, got: %v", errs)
	}
}
