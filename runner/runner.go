// Package runner wraps an asynchronous action with observable pending and
// last-error state. A Runner tracks exactly one logical invocation at a time:
// overlapping calls each get their own invocation token, and only the most
// recent call's settlement is allowed to touch the shared observables.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"refract/reactive"
)

// ErrPanic marks a failure produced by a panicking action. Actions are
// expected to report failures as returned errors; a panic is a contract
// violation and is wrapped rather than silently coerced.
var ErrPanic = errors.New("action panicked")

// Action is the caller-supplied function a Runner executes. Extra arguments
// beyond the context are closed over by the caller.
type Action[T any] func(ctx context.Context) (T, error)

// Options configures a Runner. The zero value is valid: never disabled,
// errors swallowed into LastError, failures parsed to their message string.
type Options struct {
	// Disabled, when non-nil and true, makes Run return immediately without
	// invoking the action. Use a Ref holding a constant for the static case.
	Disabled *reactive.Ref[bool]

	// PropagateErrors makes Run return the parsed failure to its caller
	// instead of swallowing it.
	PropagateErrors bool

	// ParseError maps a failure to the payload stored in LastError.
	// When nil the failure's message string is used.
	ParseError func(error) any
}

// Failure is the tagged error value exposed through LastError.
// A nil *Failure means no error.
type Failure struct {
	// Message is always set; the default parser uses the error's message.
	Message string

	// Payload holds the ParseError result when a parser is configured.
	Payload any

	// Err is the original error returned (or recovered) from the action.
	Err error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Runner executes an action and tracks its lifecycle.
type Runner[T any] struct {
	action  Action[T]
	opts    Options
	pending *reactive.Ref[bool]
	lastErr *reactive.Ref[*Failure]

	mu      sync.Mutex
	current uuid.UUID // token of the most recent invocation
}

// New creates a Runner for action.
func New[T any](action Action[T], opts Options) *Runner[T] {
	return &Runner[T]{
		action:  action,
		opts:    opts,
		pending: reactive.NewRef(false),
		lastErr: reactive.NewRef[*Failure](nil),
	}
}

// Pending reports whether the most recent invocation is still in flight.
func (r *Runner[T]) Pending() *reactive.Ref[bool] {
	return r.pending
}

// LastError holds the failure of the most recent settled invocation,
// or nil after a success. It is reset to nil when a new invocation starts.
func (r *Runner[T]) LastError() *reactive.Ref[*Failure] {
	return r.lastErr
}

// Run invokes the action and returns its result.
//
// While disabled, Run returns the zero value and a nil error without
// invoking the action; Pending and LastError are left untouched. On failure
// the parsed error lands in LastError and Run returns either (zero, nil) or
// (zero, error) depending on Options.PropagateErrors.
func (r *Runner[T]) Run(ctx context.Context) (T, error) {
	var zero T
	if r.opts.Disabled != nil && r.opts.Disabled.Get() {
		return zero, nil
	}

	token := uuid.New()
	r.mu.Lock()
	r.current = token
	r.mu.Unlock()

	r.lastErr.Set(nil)
	r.pending.Set(true)

	result, err := r.invoke(ctx)

	var failure *Failure
	if err != nil {
		failure = r.parse(err)
	}

	// Last call wins: a superseded invocation returns its own result but
	// must not flip pending or clobber a newer call's error state.
	if r.settles(token) {
		r.pending.Set(false)
		if failure != nil {
			r.lastErr.Set(failure)
		}
	}

	if err != nil {
		if r.opts.PropagateErrors {
			return zero, failure.propagated()
		}
		return zero, nil
	}
	return result, nil
}

// invoke calls the action, converting a panic into a wrapped error.
func (r *Runner[T]) invoke(ctx context.Context) (result T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("%w: %w", ErrPanic, e)
			} else {
				err = fmt.Errorf("%w: %v", ErrPanic, rec)
			}
		}
	}()
	return r.action(ctx)
}

// settles reports whether the invocation identified by token is still the
// most recent one and therefore owns the shared state transition.
func (r *Runner[T]) settles(token uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current == token
}

func (r *Runner[T]) parse(err error) *Failure {
	if r.opts.ParseError == nil {
		return &Failure{Message: err.Error(), Err: err}
	}

	payload := r.opts.ParseError(err)
	msg := fmt.Sprintf("%v", payload)
	if e, ok := payload.(error); ok {
		msg = e.Error()
	}
	return &Failure{Message: msg, Payload: payload, Err: err}
}

// propagated returns the error handed to Run's caller: the parsed payload
// when it already is an error, otherwise the Failure itself.
func (f *Failure) propagated() error {
	if e, ok := f.Payload.(error); ok {
		return e
	}
	return f
}
