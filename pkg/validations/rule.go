package validations

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Kind identifies the family a rule belongs to.
type Kind string

const (
	KindPresence      Kind = "presence"
	KindAbsence       Kind = "absence"
	KindFormat        Kind = "format"
	KindLength        Kind = "length"
	KindNumericality  Kind = "numericality"
	KindAcceptance    Kind = "acceptance"
	KindConfirmation  Kind = "confirmation"
	KindPrimitiveType Kind = "primitive_type"
	KindWithin        Kind = "within"
	KindExclusion     Kind = "exclusion"
	KindBlock         Kind = "block"
	KindMethod        Kind = "method"
	KindUniqueness    Kind = "uniqueness"
)

// BaseAttribute is used for object-level rules that are not bound to a single attribute.
const BaseAttribute = "base"

// DefaultIdentityAttribute holds record identity unless configured otherwise.
const DefaultIdentityAttribute = "id"

// Condition decides at evaluation time whether a rule applies to target.
type Condition func(ctx context.Context, target any) bool

// Env carries the collaborators a rule may need during evaluation.
// The zero value is usable: default messages, no uniqueness checker.
type Env struct {
	Model             string
	Messages          Messages
	Uniqueness        UniquenessChecker
	IdentityAttribute string
}

func (e Env) messages() Messages {
	if e.Messages == nil {
		return defaultMessages
	}
	return e.Messages
}

func (e Env) identityAttribute() string {
	if e.IdentityAttribute == "" {
		return DefaultIdentityAttribute
	}
	return e.IdentityAttribute
}

// Rule is a single validation predicate bound to an attribute.
// Rules are immutable once added to a ContextualRuleSet.
type Rule struct {
	attribute  string
	kind       Kind
	message    string
	contexts   []string
	allowNil   bool
	allowBlank bool
	when       []Condition
	unless     []Condition
	check      check
}

// check is the closed set of rule variants. Every kind has exactly one
// implementation in this package.
type check interface {
	run(ctx context.Context, e *evaluation) (outcome, error)
}

// outcome of one check. values feed message interpolation.
type outcome struct {
	ok            bool
	violationType string
	values        map[string]any
	message       string
}

func pass() (outcome, error) {
	return outcome{ok: true}, nil
}

func fail(violationType string, values map[string]any) (outcome, error) {
	return outcome{violationType: violationType, values: values}, nil
}

type evaluation struct {
	rule   *Rule
	target any
	value  any
	env    Env
}

// Option configures behaviour shared by every rule kind.
type Option func(*Rule)

// Message replaces the computed default message. It is used verbatim.
func Message(msg string) Option {
	return func(r *Rule) { r.message = msg }
}

// On restricts the rule to the given validation contexts.
func On(contexts ...string) Option {
	return func(r *Rule) {
		for _, c := range contexts {
			if c != "" && !slices.Contains(r.contexts, c) {
				r.contexts = append(r.contexts, c)
			}
		}
	}
}

// AllowNil makes the rule pass when the attribute is nil.
func AllowNil(allow bool) Option {
	return func(r *Rule) { r.allowNil = allow }
}

// AllowBlank makes the rule pass when the attribute is blank.
func AllowBlank(allow bool) Option {
	return func(r *Rule) { r.allowBlank = allow }
}

// If evaluates the rule only when cond returns true.
func If(cond Condition) Option {
	return func(r *Rule) {
		if cond != nil {
			r.when = append(r.when, cond)
		}
	}
}

// Unless skips the rule when cond returns true.
func Unless(cond Condition) Option {
	return func(r *Rule) {
		if cond != nil {
			r.unless = append(r.unless, cond)
		}
	}
}

func newRule(attribute string, kind Kind, c check, opts ...Option) *Rule {
	r := &Rule{attribute: attribute, kind: kind, check: c}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Rule) Attribute() string { return r.attribute }
func (r *Rule) Kind() Kind { return r.kind }

// Contexts returns the contexts the rule was declared for; empty means the
// owning rule set's default context.
func (r *Rule) Contexts() []string { return slices.Clone(r.contexts) }

// CustomMessage returns the message supplied at declaration, if any.
func (r *Rule) CustomMessage() string { return r.message }

// Validate evaluates the rule against target. It returns nil when the rule
// passes or does not apply. An error is returned only for exceptional
// conditions, never for ordinary invalid input.
func (r *Rule) Validate(ctx context.Context, target any, env Env) (*Violation, error) {
	o, err := r.evaluate(ctx, target, env)
	if err != nil || o.ok {
		return nil, err
	}
	v := r.violation(o, env)
	return &v, nil
}

// Valid reports whether target satisfies the rule.
func (r *Rule) Valid(ctx context.Context, target any, env Env) (bool, error) {
	v, err := r.Validate(ctx, target, env)
	return v == nil && err == nil, err
}

func (r *Rule) evaluate(ctx context.Context, target any, env Env) (outcome, error) {
	if !r.applies(ctx, target) {
		return pass()
	}
	e := &evaluation{rule: r, target: target, env: env}
	if r.kind != KindBlock && r.kind != KindMethod {
		value, ok := ReadAttribute(target, r.attribute)
		if !ok {
			return outcome{}, fmt.Errorf("%w: %s", ErrUnknownAttribute, r.attribute)
		}
		e.value = value
		if r.allowNil && indirect(e.value) == nil {
			return pass()
		}
		if r.allowBlank && isBlank(e.value) {
			return pass()
		}
	}
	return r.check.run(ctx, e)
}

func (r *Rule) applies(ctx context.Context, target any) bool {
	for _, cond := range r.when {
		if !cond(ctx, target) {
			return false
		}
	}
	for _, cond := range r.unless {
		if cond(ctx, target) {
			return false
		}
	}
	return true
}

func (r *Rule) violation(o outcome, env Env) Violation {
	values := make(map[string]any, len(o.values)+1)
	maps.Copy(values, o.values)
	values["attribute"] = r.attribute

	msg := r.message
	if msg == "" {
		msg = o.message
	}
	if msg == "" {
		msg = env.messages().Format(o.violationType, r.attribute, values)
	}
	return Violation{
		Attribute:      r.attribute,
		Message:        msg,
		Kind:           r.kind,
		Type:           o.violationType,
		TranslationKey: translationKey(o.violationType),
		Values:         values,
	}
}

// equalValues compares with ==, falling back to reflect.DeepEqual for values
// that are not comparable.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	if av.Comparable() && bv.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
