package validations

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// playground backs named formats. validator.Validate is safe for concurrent use.
var playground = validator.New()

// namedFormats lists the go-playground tags accepted by FormatNamed.
var namedFormats = map[string]bool{
	"alpha": true, "alphanum": true, "ascii": true, "base64": true, "cidr": true,
	"e164": true, "email": true, "hexadecimal": true, "hexcolor": true,
	"hostname": true, "ip": true, "ipv4": true, "ipv6": true, "json": true,
	"lowercase": true, "mac": true, "numeric": true, "uppercase": true,
	"uri": true, "url": true, "uuid": true, "uuid4": true,
}

type formatCheck struct {
	pattern *regexp.Regexp
	named   string
	fn      func(string) bool
	name    string
}

func (c formatCheck) run(_ context.Context, e *evaluation) (outcome, error) {
	s, ok := stringValue(e.value)
	if !ok || !c.matches(s) {
		return fail("invalid", map[string]any{"format": c.name})
	}
	return pass()
}

func (c formatCheck) matches(s string) bool {
	switch {
	case c.pattern != nil:
		return c.pattern.MatchString(s)
	case c.named != "":
		return playground.Var(s, c.named) == nil
	case c.fn != nil:
		return c.fn(s)
	}
	return false
}

// Format requires the attribute's string form to match pattern.
func Format(attribute string, pattern *regexp.Regexp, opts ...Option) *Rule {
	if pattern == nil {
		panic("validations: Format requires a pattern")
	}
	return newRule(attribute, KindFormat, formatCheck{pattern: pattern, name: pattern.String()}, opts...)
}

// FormatNamed checks the attribute against a well-known format such as
// "email", "url" or "uuid". It panics for formats it does not know.
func FormatNamed(attribute, format string, opts ...Option) *Rule {
	if !namedFormats[format] {
		panic(fmt.Sprintf("validations: unknown named format %q", format))
	}
	return newRule(attribute, KindFormat, formatCheck{named: format, name: format}, opts...)
}

// FormatFunc checks the attribute's string form with a predicate.
func FormatFunc(attribute, name string, fn func(string) bool, opts ...Option) *Rule {
	if fn == nil {
		panic("validations: FormatFunc requires a predicate")
	}
	return newRule(attribute, KindFormat, formatCheck{fn: fn, name: name}, opts...)
}

// stringValue returns the string form of value; nil yields false.
func stringValue(value any) (string, bool) {
	value = indirect(value)
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	}
	return fmt.Sprint(value), true
}

// LengthBounds constrains a length. Zero fields are not checked; Is takes
// precedence over Min and Max.
type LengthBounds struct {
	Min int
	Max int
	Is  int
}

type lengthCheck struct {
	bounds LengthBounds
}

func (c lengthCheck) run(_ context.Context, e *evaluation) (outcome, error) {
	n := lengthOf(e.value)
	b := c.bounds
	switch {
	case b.Is > 0:
		if n != b.Is {
			return fail("wrong_length", map[string]any{"expected": b.Is, "length": n})
		}
	case b.Min > 0 && b.Max > 0:
		if n < b.Min || n > b.Max {
			return fail("length_between", map[string]any{"minimum": b.Min, "maximum": b.Max, "length": n})
		}
	case b.Min > 0:
		if n < b.Min {
			return fail("too_short", map[string]any{"minimum": b.Min, "length": n})
		}
	case b.Max > 0:
		if n > b.Max {
			return fail("too_long", map[string]any{"maximum": b.Max, "length": n})
		}
	}
	return pass()
}

// lengthOf counts runes for strings and elements for collections. nil has length 0.
func lengthOf(value any) int {
	value = indirect(value)
	if value == nil {
		return 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String())
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len()
	}
	return utf8.RuneCountInString(fmt.Sprint(value))
}

// Length checks the attribute's length against bounds.
func Length(attribute string, bounds LengthBounds, opts ...Option) *Rule {
	if bounds.Min < 0 || bounds.Max < 0 || bounds.Is < 0 || (bounds.Max > 0 && bounds.Min > bounds.Max) {
		panic(fmt.Sprintf("validations: invalid length bounds %+v", bounds))
	}
	return newRule(attribute, KindLength, lengthCheck{bounds: bounds}, opts...)
}

func LengthMin(attribute string, min int, opts ...Option) *Rule {
	return Length(attribute, LengthBounds{Min: min}, opts...)
}

func LengthMax(attribute string, max int, opts ...Option) *Rule {
	return Length(attribute, LengthBounds{Max: max}, opts...)
}

func LengthBetween(attribute string, min, max int, opts ...Option) *Rule {
	return Length(attribute, LengthBounds{Min: min, Max: max}, opts...)
}

func LengthIs(attribute string, exact int, opts ...Option) *Rule {
	return Length(attribute, LengthBounds{Is: exact}, opts...)
}
