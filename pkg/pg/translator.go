package pg

import (
	"regexp"
	"strings"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// detailKey matches the column list of a unique violation detail:
// Key (email)=(a@example.com) already exists.
var detailKey = regexp.MustCompile(`Key \((.+?)\)=\((.*)\)`)

// ErrorTranslator converts unique constraint violations into "taken"
// violations so saves racing past the uniqueness rule still fail softly.
type ErrorTranslator struct {
	messages    validations.Messages
	constraints map[string]string
}

type TranslatorOption func(*ErrorTranslator)

// WithConstraint reports violations of the named constraint on attribute.
func WithConstraint(constraint, attribute string) TranslatorOption {
	return func(t *ErrorTranslator) { t.constraints[constraint] = attribute }
}

// WithTranslatorMessages sets the message table used for the "taken" text.
func WithTranslatorMessages(m validations.Messages) TranslatorOption {
	return func(t *ErrorTranslator) {
		if m != nil {
			t.messages = m
		}
	}
}

func NewErrorTranslator(opts ...TranslatorOption) *ErrorTranslator {
	t := &ErrorTranslator{
		messages:    validations.DefaultMessages(),
		constraints: make(map[string]string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *ErrorTranslator) Translates(err error) bool {
	return IsDuplicateKeyError(err)
}

// Translate returns one violation for the conflicting attribute. The
// attribute comes from a registered constraint, else from the last column of
// the error detail, else BaseAttribute.
func (t *ErrorTranslator) Translate(err error) []validations.Violation {
	pgErr, ok := asPgError(err)
	if !ok {
		return nil
	}
	attribute, value := validations.BaseAttribute, ""
	if m := detailKey.FindStringSubmatch(pgErr.Detail); m != nil {
		cols := strings.Split(m[1], ",")
		vals := strings.Split(m[2], ",")
		attribute = strings.Trim(strings.TrimSpace(cols[len(cols)-1]), `"`)
		if len(vals) == len(cols) {
			value = strings.TrimSpace(vals[len(vals)-1])
		}
	}
	if attr, ok := t.constraints[pgErr.ConstraintName]; ok {
		attribute = attr
	}

	values := map[string]any{"value": value}
	v := validations.NewViolation(attribute, "taken", t.messages.Format("taken", attribute, values))
	v.Kind = validations.KindUniqueness
	v.Values["value"] = value
	return []validations.Violation{v}
}

var _ validations.ErrorTranslator = (*ErrorTranslator)(nil)
