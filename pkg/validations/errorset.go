package validations

import (
	"encoding/json"
	"strings"
)

// ErrorSet collects violations of a single target instance keyed by attribute.
// Attribute order follows the order in which the first violation for each
// attribute was added, so repeated passes over the same state produce the
// same listing.
type ErrorSet struct {
	order      []string
	violations map[string][]Violation
}

// NewErrorSet returns an empty set.
func NewErrorSet() *ErrorSet {
	return &ErrorSet{violations: make(map[string][]Violation)}
}

// Add appends a violation to its attribute.
func (es *ErrorSet) Add(v Violation) {
	if es.violations == nil {
		es.violations = make(map[string][]Violation)
	}
	if _, ok := es.violations[v.Attribute]; !ok {
		es.order = append(es.order, v.Attribute)
	}
	es.violations[v.Attribute] = append(es.violations[v.Attribute], v)
}

// AddMessage appends a free-form message for attribute.
func (es *ErrorSet) AddMessage(attribute, message string) {
	es.Add(NewViolation(attribute, "custom", message))
}

// On returns the messages recorded for attribute, or nil when it has none.
func (es *ErrorSet) On(attribute string) []string {
	vs := es.violations[attribute]
	if len(vs) == 0 {
		return nil
	}
	messages := make([]string, len(vs))
	for i, v := range vs {
		messages[i] = v.Message
	}
	return messages
}

// Violations returns the violations recorded for attribute.
func (es *ErrorSet) Violations(attribute string) []Violation {
	vs := es.violations[attribute]
	if len(vs) == 0 {
		return nil
	}
	out := make([]Violation, len(vs))
	copy(out, vs)
	return out
}

// All returns every violation, grouped by attribute in insertion order.
func (es *ErrorSet) All() []Violation {
	out := make([]Violation, 0, es.Len())
	for _, attr := range es.order {
		out = append(out, es.violations[attr]...)
	}
	return out
}

// Attributes returns the attributes that have at least one violation.
func (es *ErrorSet) Attributes() []string {
	out := make([]string, len(es.order))
	copy(out, es.order)
	return out
}

// FullMessages returns all messages in attribute order.
func (es *ErrorSet) FullMessages() []string {
	out := make([]string, 0, es.Len())
	for _, v := range es.All() {
		out = append(out, v.Message)
	}
	return out
}

func (es *ErrorSet) Has(attribute string) bool {
	return len(es.violations[attribute]) > 0
}

func (es *ErrorSet) Empty() bool {
	return es == nil || len(es.order) == 0
}

// Len returns the total number of violations.
func (es *ErrorSet) Len() int {
	if es == nil {
		return 0
	}
	n := 0
	for _, vs := range es.violations {
		n += len(vs)
	}
	return n
}

// Clear drops every violation.
func (es *ErrorSet) Clear() {
	es.order = nil
	es.violations = make(map[string][]Violation)
}

func (es *ErrorSet) Error() string {
	if es.Empty() {
		return "validation failed"
	}
	parts := make([]string, 0, es.Len())
	for _, v := range es.All() {
		parts = append(parts, v.Attribute+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// MarshalJSON encodes the set as attribute -> messages.
func (es *ErrorSet) MarshalJSON() ([]byte, error) {
	out := make(map[string][]string, len(es.order))
	for _, attr := range es.order {
		out[attr] = es.On(attr)
	}
	return json.Marshal(out)
}

// Resource is a target that owns an ErrorSet.
type Resource interface {
	Errors() *ErrorSet
}

// Validatable is embedded into models to give every instance its own ErrorSet.
// The set is created lazily on first access.
//
//	type User struct {
//		validations.Validatable `gorm:"-" json:"-"`
//		ID   string
//		Name string
//	}
type Validatable struct {
	errors *ErrorSet
}

func (v *Validatable) Errors() *ErrorSet {
	if v.errors == nil {
		v.errors = NewErrorSet()
	}
	return v.errors
}

// Valid reports whether the last validation pass left no violations.
func (v *Validatable) Valid() bool {
	return v.Errors().Empty()
}
