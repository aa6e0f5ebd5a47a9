package validation

import (
	"testing"
	"time"
)

type sample struct {
	Email string    `json:"email" validate:"required,email"`
	Pass  string    `json:"password" validate:"required,pwd"`
	When  time.Time `json:"when" validate:"future"`
	Skip  string    `json:"-" validate:"-"`
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Struct(sample{Email: "not-an-email", Pass: "short", When: time.Now().Add(-time.Minute)})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	details := ToDetails(err)
	if details["email"] != "must be a valid email" {
		t.Fatalf("email: %q", details["email"])
	}
	if details["password"] != "min length 8" {
		t.Fatalf("password: %q", details["password"])
	}
	if details["when"] != "must be in the future" {
		t.Fatalf("when: %q", details["when"])
	}
}

func TestToDetailsNil(t *testing.T) {
	if ToDetails(nil) != nil {
		t.Fatal("nil error must map to nil details")
	}
}

func TestFutureAcceptsFutureTime(t *testing.T) {
	v := New()
	err := v.Struct(sample{Email: "a@b.com", Pass: "longenough", When: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("unexpected errors: %v", err)
	}
}
