package validations

import (
	"context"
	"reflect"
)

type withinCheck struct {
	set     Set
	exclude bool
}

func (c withinCheck) run(_ context.Context, e *evaluation) (outcome, error) {
	found := c.set.Contains(indirect(e.value))
	switch {
	case c.exclude && found:
		return fail("exclusion", map[string]any{"set": describeSet(c.set)})
	case !c.exclude && !found:
		return fail("inclusion", map[string]any{"set": describeSet(c.set)})
	}
	return pass()
}

// Within requires the attribute to be a member of set. set may be a Set, a
// slice, an array or a map whose keys are the members.
func Within(attribute string, set any, opts ...Option) *Rule {
	return newRule(attribute, KindWithin, withinCheck{set: toSet(set)}, opts...)
}

// Exclusion requires the attribute not to be a member of set.
func Exclusion(attribute string, set any, opts ...Option) *Rule {
	return newRule(attribute, KindExclusion, withinCheck{set: toSet(set), exclude: true}, opts...)
}

var defaultAccepted = NewSet(true, "1", 1, "true", "t")

type acceptanceCheck struct {
	accepted Set
}

func (c acceptanceCheck) run(_ context.Context, e *evaluation) (outcome, error) {
	if !c.accepted.Contains(indirect(e.value)) {
		return fail("accepted", nil)
	}
	return pass()
}

// Acceptance requires the attribute to equal one of the accepted values
// (true, "1", 1, "true", "t" when accepted is nil). nil passes unless
// AllowNil(false) is given.
func Acceptance(attribute string, accepted any, opts ...Option) *Rule {
	set := defaultAccepted
	if accepted != nil {
		set = toSet(accepted)
	}
	opts = append([]Option{AllowNil(true)}, opts...)
	return newRule(attribute, KindAcceptance, acceptanceCheck{accepted: set}, opts...)
}

type confirmationCheck struct {
	confirmation string
}

func (c confirmationCheck) run(_ context.Context, e *evaluation) (outcome, error) {
	other, ok := ReadAttribute(e.target, c.confirmation)
	if !ok || !equalValues(indirect(e.value), indirect(other)) {
		return fail("confirmation", map[string]any{"confirmation": c.confirmation})
	}
	return pass()
}

// Confirmation requires the attribute to equal its paired confirmation
// attribute, "<attribute>_confirmation" when confirmation is empty.
func Confirmation(attribute, confirmation string, opts ...Option) *Rule {
	if confirmation == "" {
		confirmation = attribute + "_confirmation"
	}
	return newRule(attribute, KindConfirmation, confirmationCheck{confirmation: confirmation}, opts...)
}

type primitiveCheck struct {
	expected reflect.Type
}

func (c primitiveCheck) run(_ context.Context, e *evaluation) (outcome, error) {
	value := indirect(e.value)
	if value == nil || reflect.TypeOf(value).AssignableTo(c.expected) {
		return pass()
	}
	return fail("primitive", map[string]any{"type": c.expected.String()})
}

// PrimitiveType requires the attribute's dynamic type to be assignable to
// expected. nil values pass.
func PrimitiveType(attribute string, expected reflect.Type, opts ...Option) *Rule {
	if expected == nil {
		panic("validations: PrimitiveType requires a type")
	}
	return newRule(attribute, KindPrimitiveType, primitiveCheck{expected: expected}, opts...)
}

// PrimitiveTypeOf is PrimitiveType for a static type parameter.
func PrimitiveTypeOf[T any](attribute string, opts ...Option) *Rule {
	return PrimitiveType(attribute, reflect.TypeFor[T](), opts...)
}
