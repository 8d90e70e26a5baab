package validations

import "context"

type presenceCheck struct{}

func (presenceCheck) run(_ context.Context, e *evaluation) (outcome, error) {
	if isBlank(e.value) {
		return fail("blank", nil)
	}
	return pass()
}

type absenceCheck struct{}

func (absenceCheck) run(_ context.Context, e *evaluation) (outcome, error) {
	if !isBlank(e.value) {
		return fail("absent", nil)
	}
	return pass()
}

// Presence requires the attribute to be non-blank: not nil, not a
// whitespace-only string and not an empty collection. false and 0 are present.
func Presence(attribute string, opts ...Option) *Rule {
	return newRule(attribute, KindPresence, presenceCheck{}, opts...)
}

// Absence requires the attribute to be blank.
func Absence(attribute string, opts ...Option) *Rule {
	return newRule(attribute, KindAbsence, absenceCheck{}, opts...)
}
