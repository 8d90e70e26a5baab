package validations

import (
	"context"
	"errors"
)

// Operation names the persistence call being intercepted.
type Operation string

const (
	OperationSave   Operation = "save"
	OperationUpdate Operation = "update"
)

// PrePersistHook is invoked synchronously by the persistence layer before it
// writes target. Returning an error that matches ErrHalted stops the write and
// reports failure to the caller; any other error propagates unchanged.
type PrePersistHook interface {
	BeforePersist(ctx context.Context, op Operation, target any) error
}

// HookFunc adapts a function to PrePersistHook.
type HookFunc func(ctx context.Context, op Operation, target any) error

func (f HookFunc) BeforePersist(ctx context.Context, op Operation, target any) error {
	return f(ctx, op, target)
}

// Persister performs the actual write. It is provided by the storage layer.
type Persister interface {
	Persist(ctx context.Context, op Operation, target any) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, op Operation, target any) error

func (f PersisterFunc) Persist(ctx context.Context, op Operation, target any) error {
	return f(ctx, op, target)
}

// ErrorTranslator converts storage errors into violations. Storage adapters
// implement it for failures such as unique-constraint violations.
type ErrorTranslator interface {
	// Translates reports whether err is a validation-relevant storage error.
	Translates(err error) bool
	// Translate converts err into zero or more violations.
	Translate(err error) []Violation
}

// NoTranslation is the default translator: no error is validation-relevant.
type NoTranslation struct{}

func (NoTranslation) Translates(error) bool { return false }
func (NoTranslation) Translate(error) []Violation { return nil }

// Translators chains translators; the first one that recognises an error wins.
func Translators(ts ...ErrorTranslator) ErrorTranslator {
	return translatorChain(ts)
}

type translatorChain []ErrorTranslator

func (c translatorChain) Translates(err error) bool {
	return c.pick(err) != nil
}

func (c translatorChain) Translate(err error) []Violation {
	if t := c.pick(err); t != nil {
		return t.Translate(err)
	}
	return nil
}

func (c translatorChain) pick(err error) ErrorTranslator {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	for _, t := range c {
		if t != nil && t.Translates(err) {
			return t
		}
	}
	return nil
}
