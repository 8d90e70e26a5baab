package validations

import (
	"context"
	"errors"
	"reflect"
)

// UniquenessQuery asks the storage layer whether another persisted record
// already holds Value for Attribute.
type UniquenessQuery struct {
	// Model is the table or collection name of the target's type.
	Model string
	// Target is the record being validated.
	Target    any
	Attribute string
	Value     any
	// Scope restricts the lookup to records sharing these attribute values.
	Scope map[string]any
	// IdentityAttribute and Identity exclude the target itself. Identity is
	// nil for records that were never persisted.
	IdentityAttribute string
	Identity          any
}

// UniquenessChecker is implemented by storage adapters.
type UniquenessChecker interface {
	Exists(ctx context.Context, q UniquenessQuery) (bool, error)
}

// UniquenessFunc adapts a function to UniquenessChecker.
type UniquenessFunc func(ctx context.Context, q UniquenessQuery) (bool, error)

func (f UniquenessFunc) Exists(ctx context.Context, q UniquenessQuery) (bool, error) {
	return f(ctx, q)
}

type uniquenessCheck struct {
	scope []string
}

func (c uniquenessCheck) run(ctx context.Context, e *evaluation) (outcome, error) {
	if e.env.Uniqueness == nil {
		return outcome{}, ErrNoUniquenessChecker
	}
	q := UniquenessQuery{
		Model:             e.env.Model,
		Target:            e.target,
		Attribute:         e.rule.attribute,
		Value:             indirect(e.value),
		IdentityAttribute: e.env.identityAttribute(),
	}
	if id, ok := ReadAttribute(e.target, q.IdentityAttribute); ok && !isZero(id) {
		q.Identity = indirect(id)
	}
	if len(c.scope) > 0 {
		q.Scope = make(map[string]any, len(c.scope))
		for _, attr := range c.scope {
			v, _ := ReadAttribute(e.target, attr)
			q.Scope[attr] = indirect(v)
		}
	}

	exists, err := e.env.Uniqueness.Exists(ctx, q)
	if err != nil {
		return outcome{}, errors.Join(ErrUniquenessCheckFailed, err)
	}
	if exists {
		return fail("taken", map[string]any{"value": q.Value})
	}
	return pass()
}

// Uniqueness requires no other persisted record to share the attribute's value.
func Uniqueness(attribute string, opts ...Option) *Rule {
	return newRule(attribute, KindUniqueness, uniquenessCheck{}, opts...)
}

// UniquenessWithin is Uniqueness limited to records with the same scope values.
func UniquenessWithin(attribute string, scope []string, opts ...Option) *Rule {
	return newRule(attribute, KindUniqueness, uniquenessCheck{scope: scope}, opts...)
}

func isZero(v any) bool {
	v = indirect(v)
	return v == nil || reflect.ValueOf(v).IsZero()
}
