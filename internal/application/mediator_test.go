package application

import (
	"context"
	"testing"
	"time"

	"github.com/reactivities/api/pkg/validation"
)

type echoReq struct {
	Value string
}

type otherReq struct{}

type validatedReq struct {
	Title string    `json:"title" validate:"required,max=100"`
	Date  time.Time `json:"date" validate:"required,future"`
}

func newTestValidator(t *testing.T) *Mediator {
	t.Helper()
	return NewMediator(validation.New())
}

func TestSendDispatchesToRegisteredHandler(t *testing.T) {
	m := newTestValidator(t)
	Register(m, func(ctx context.Context, req echoReq) (string, error) {
		return "echo:" + req.Value, nil
	})

	got, err := Send[string](context.Background(), m, echoReq{Value: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "echo:hi" {
		t.Fatalf("got %q", got)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	m := newTestValidator(t)
	h := func(ctx context.Context, req echoReq) (string, error) { return "", nil }
	Register(m, h)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register(m, h)
}

func TestSendUnregisteredPanics(t *testing.T) {
	m := newTestValidator(t)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on missing registration")
		}
	}()
	_, _ = Send[string](context.Background(), m, otherReq{})
}

func TestWithValidationCollectsAllFieldErrors(t *testing.T) {
	m := newTestValidator(t)
	called := false
	Register(m, func(ctx context.Context, req validatedReq) (Unit, error) {
		called = true
		return Unit{}, nil
	}, WithValidation())

	_, err := Send[Unit](context.Background(), m, validatedReq{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", verr.Fields)
	}
	if _, ok := verr.Fields["title"]; !ok {
		t.Fatalf("missing title error: %v", verr.Fields)
	}
	if _, ok := verr.Fields["date"]; !ok {
		t.Fatalf("missing date error: %v", verr.Fields)
	}
	if called {
		t.Fatal("handler must not run on invalid request")
	}
}

func TestWithValidationRejectsPastDate(t *testing.T) {
	m := newTestValidator(t)
	Register(m, func(ctx context.Context, req validatedReq) (Unit, error) {
		return Unit{}, nil
	}, WithValidation())

	_, err := Send[Unit](context.Background(), m, validatedReq{
		Title: "ok",
		Date:  time.Now().Add(-time.Hour),
	})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if msg := verr.Fields["date"]; msg != "must be in the future" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestWithValidationPassesValidRequest(t *testing.T) {
	m := newTestValidator(t)
	Register(m, func(ctx context.Context, req validatedReq) (Unit, error) {
		return Unit{}, nil
	}, WithValidation())

	if _, err := Send[Unit](context.Background(), m, validatedReq{
		Title: "ok",
		Date:  time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
