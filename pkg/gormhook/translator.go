package gormhook

import (
	"errors"
	"regexp"

	"gorm.io/gorm"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// sqlite and mysql style unique violation messages.
var uniqueColumnRe = regexp.MustCompile(`(?:UNIQUE constraint failed: (?:\w+\.)?(\w+)|Duplicate entry '.*' for key '(?:\w+\.)?(\w+)')`)

// ErrorTranslator turns unique-key violations into "taken" violations. The
// column is read from the driver message when present; otherwise, as with
// gorm.ErrDuplicatedKey from TranslateError, the fallback attribute is used.
type ErrorTranslator struct {
	fallback string
	messages validations.Messages
}

func NewErrorTranslator(fallback string, messages validations.Messages) *ErrorTranslator {
	if messages == nil {
		messages = validations.DefaultMessages()
	}
	return &ErrorTranslator{fallback: fallback, messages: messages}
}

func (t *ErrorTranslator) Translates(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || uniqueColumnRe.MatchString(err.Error())
}

func (t *ErrorTranslator) Translate(err error) []validations.Violation {
	if !t.Translates(err) {
		return nil
	}
	attr := t.fallback
	if m := uniqueColumnRe.FindStringSubmatch(err.Error()); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				attr = g
				break
			}
		}
	}
	if attr == "" {
		attr = validations.BaseAttribute
	}
	v := validations.NewViolation(attr, "taken", t.messages.Format("taken", attr, nil))
	v.Kind = validations.KindUniqueness
	return []validations.Violation{v}
}

var _ validations.ErrorTranslator = (*ErrorTranslator)(nil)
