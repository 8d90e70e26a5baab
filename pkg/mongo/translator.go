package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// dupKey matches the first key of an E11000 message:
// ... index: email_1 dup key: { email: "a@example.com" }
var dupKey = regexp.MustCompile(`dup key: \{ *"?([^":\s]+)"? *: *([^,}]*)`)

// ErrorTranslator converts duplicate key errors (code 11000) into "taken" violations.
type ErrorTranslator struct {
	messages validations.Messages
}

func NewErrorTranslator(messages validations.Messages) *ErrorTranslator {
	if messages == nil {
		messages = validations.DefaultMessages()
	}
	return &ErrorTranslator{messages: messages}
}

func (t *ErrorTranslator) Translates(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

func (t *ErrorTranslator) Translate(err error) []validations.Violation {
	if !t.Translates(err) {
		return nil
	}
	attribute, value := validations.BaseAttribute, ""
	if m := dupKey.FindStringSubmatch(err.Error()); m != nil {
		attribute = m[1]
		value = strings.Trim(strings.TrimSpace(m[2]), `"`)
	}
	v := validations.NewViolation(attribute, "taken", t.messages.Format("taken", attribute, map[string]any{"value": value}))
	v.Kind = validations.KindUniqueness
	v.Values["value"] = value
	return []validations.Violation{v}
}

var _ validations.ErrorTranslator = (*ErrorTranslator)(nil)
