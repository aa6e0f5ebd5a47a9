package application

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/reactivities/api/pkg/validation"
)

// Handler is a single-purpose command or query handler.
type Handler[Req any, Res any] func(ctx context.Context, req Req) (Res, error)

type entry struct {
	handler   any
	resType   reflect.Type
	validated bool
}

// Mediator routes a request object to the one handler registered for
// its concrete type. Registration happens once at startup; Send is safe
// for concurrent use afterwards.
type Mediator struct {
	entries  map[reflect.Type]entry
	validate *validator.Validate
}

func NewMediator(v *validator.Validate) *Mediator {
	return &Mediator{
		entries:  make(map[reflect.Type]entry),
		validate: v,
	}
}

// RegisterOption decorates a handler at registration time.
type RegisterOption func(*entry)

// WithValidation runs struct-tag validation over the request before the
// handler executes. Invalid requests never reach the handler; all field
// errors are collected into a *ValidationError.
func WithValidation() RegisterOption {
	return func(e *entry) { e.validated = true }
}

// Register binds h as the only handler for Req. Registering a second
// handler for the same request type is a process configuration error
// and panics.
func Register[Req any, Res any](m *Mediator, h Handler[Req, Res], opts ...RegisterOption) {
	t := reflect.TypeOf((*Req)(nil)).Elem()
	if _, dup := m.entries[t]; dup {
		panic(fmt.Sprintf("mediator: handler already registered for %s", t))
	}
	e := entry{handler: h, resType: reflect.TypeOf((*Res)(nil)).Elem()}
	for _, opt := range opts {
		opt(&e)
	}
	m.entries[t] = e
}

// Send dispatches req to its handler. A missing registration is a
// configuration error and panics; handler failures come back as errors.
func Send[Res any, Req any](ctx context.Context, m *Mediator, req Req) (Res, error) {
	var zero Res
	t := reflect.TypeOf((*Req)(nil)).Elem()
	e, ok := m.entries[t]
	if !ok {
		panic(fmt.Sprintf("mediator: no handler registered for %s", t))
	}
	if e.validated {
		if verr := m.check(ctx, req); verr != nil {
			return zero, verr
		}
	}
	h, ok := e.handler.(Handler[Req, Res])
	if !ok {
		panic(fmt.Sprintf("mediator: handler for %s returns %s, caller wants %s",
			t, e.resType, reflect.TypeOf((*Res)(nil)).Elem()))
	}
	return h(ctx, req)
}

func (m *Mediator) check(ctx context.Context, req any) error {
	err := m.validate.StructCtx(ctx, req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Fields: validation.ToDetails(err)}
	}
	// validator.InvalidValidationError: the request is not a struct
	panic(fmt.Sprintf("mediator: cannot validate %T: %v", req, err))
}
