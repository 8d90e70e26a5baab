package validations

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Messages maps a violation type to a message template. Templates use named
// placeholders in the form %{name}; %{attribute} is always available and holds
// the humanized attribute name.
type Messages map[string]string

// ErrInvalidMessages is returned when a message file cannot be decoded.
var ErrInvalidMessages = errors.New("validations: invalid message table")

var defaultMessages = Messages{
	"absent":                   "%{attribute} must be absent",
	"accepted":                 "%{attribute} is not accepted",
	"blank":                    "%{attribute} must not be blank",
	"confirmation":             "%{attribute} does not match the confirmation",
	"custom":                   "%{attribute} is invalid",
	"equal_to":                 "%{attribute} must be equal to %{value}",
	"exclusion":                "%{attribute} must not be one of %{set}",
	"greater_than":             "%{attribute} must be greater than %{value}",
	"greater_than_or_equal_to": "%{attribute} must be greater than or equal to %{value}",
	"inclusion":                "%{attribute} must be one of %{set}",
	"invalid":                  "%{attribute} has an invalid format",
	"length_between":           "%{attribute} must be between %{minimum} and %{maximum} characters long",
	"less_than":                "%{attribute} must be less than %{value}",
	"less_than_or_equal_to":    "%{attribute} must be less than or equal to %{value}",
	"nil":                      "%{attribute} must not be nil",
	"not_a_number":             "%{attribute} must be a number",
	"not_an_integer":           "%{attribute} must be an integer",
	"not_equal_to":             "%{attribute} must not be equal to %{value}",
	"primitive":                "%{attribute} must be of type %{type}",
	"taken":                    "%{attribute} is already taken",
	"too_long":                 "%{attribute} must be at most %{maximum} characters long",
	"too_short":                "%{attribute} must be at least %{minimum} characters long",
	"wrong_length":             "%{attribute} must be %{expected} characters long",
}

// DefaultMessages returns a copy of the built-in English message table.
func DefaultMessages() Messages {
	return maps.Clone(defaultMessages)
}

// Merge returns a new table where entries of other override entries of m.
func (m Messages) Merge(other Messages) Messages {
	out := maps.Clone(m)
	if out == nil {
		out = make(Messages, len(other))
	}
	maps.Copy(out, other)
	return out
}

// LoadMessages decodes a YAML message table. Both a flat mapping and a mapping
// nested under a top-level "validation" key are accepted:
//
//	validation:
//	  blank: "%{attribute} can't be empty"
//	  taken: "%{attribute} is already in use"
func LoadMessages(r io.Reader) (Messages, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Messages{}, nil
		}
		return nil, errors.Join(ErrInvalidMessages, err)
	}
	if nested, ok := raw["validation"].(map[string]any); ok {
		raw = nested
	}
	out := make(Messages, len(raw))
	for key, value := range raw {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value for %q is %T, want string", ErrInvalidMessages, key, value)
		}
		out[key] = s
	}
	return out, nil
}

// Format renders the template registered for violationType. Unknown types fall
// back to the "custom" template.
func (m Messages) Format(violationType, attribute string, values map[string]any) string {
	tmpl, ok := m[violationType]
	if !ok {
		if tmpl, ok = defaultMessages[violationType]; !ok {
			tmpl = defaultMessages["custom"]
		}
	}
	return interpolate(tmpl, attribute, values)
}

var placeholder = regexp.MustCompile(`%\{([^}]+)\}`)

func interpolate(tmpl, attribute string, values map[string]any) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-1]
		if name == "attribute" {
			return Humanize(attribute)
		}
		if v, ok := values[name]; ok {
			return formatValue(v)
		}
		return match
	})
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// Humanize turns an attribute name into a readable label:
// "first_name" -> "First name", "EmailAddress" -> "Email address".
func Humanize(attribute string) string {
	words := strings.Fields(strings.ReplaceAll(snakeCase(attribute), "_", " "))
	if len(words) == 0 {
		return attribute
	}
	// Casers keep state and must not be shared between goroutines.
	words[0] = cases.Title(language.English).String(words[0])
	return strings.Join(words, " ")
}
