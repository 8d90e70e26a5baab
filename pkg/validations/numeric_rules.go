package validations

import (
	"context"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// NumericBounds configures Numericality. Nil bounds are not checked.
type NumericBounds struct {
	OnlyInteger          bool
	GreaterThan          *float64
	GreaterThanOrEqualTo *float64
	LessThan             *float64
	LessThanOrEqualTo    *float64
	EqualTo              *float64
	NotEqualTo           *float64
}

// Bound is a helper for NumericBounds literals.
func Bound(v float64) *float64 {
	return &v
}

var integerPattern = regexp.MustCompile(`^[+-]?\d+$`)

type numericCheck struct {
	bounds NumericBounds
}

func (c numericCheck) run(_ context.Context, e *evaluation) (outcome, error) {
	n, integer, ok := parseNumber(e.value)
	if !ok {
		return fail("not_a_number", nil)
	}
	if c.bounds.OnlyInteger && !integer {
		return fail("not_an_integer", nil)
	}

	b := c.bounds
	comparisons := []struct {
		bound         *float64
		holds         func(n, v float64) bool
		violationType string
	}{
		{b.GreaterThan, func(n, v float64) bool { return n > v }, "greater_than"},
		{b.GreaterThanOrEqualTo, func(n, v float64) bool { return n >= v }, "greater_than_or_equal_to"},
		{b.LessThan, func(n, v float64) bool { return n < v }, "less_than"},
		{b.LessThanOrEqualTo, func(n, v float64) bool { return n <= v }, "less_than_or_equal_to"},
		{b.EqualTo, func(n, v float64) bool { return n == v }, "equal_to"},
		{b.NotEqualTo, func(n, v float64) bool { return n != v }, "not_equal_to"},
	}
	for _, cmp := range comparisons {
		if cmp.bound != nil && !cmp.holds(n, *cmp.bound) {
			return fail(cmp.violationType, map[string]any{"value": formatNumber(*cmp.bound)})
		}
	}
	return pass()
}

// parseNumber accepts Go numeric kinds and numeric strings. The second result
// reports whether the number is integral.
func parseNumber(value any) (float64, bool, bool) {
	value = indirect(value)
	if value == nil {
		return 0, false, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true, true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false, false
		}
		return f, math.Trunc(f) == f, true
	case reflect.String:
		s := strings.TrimSpace(rv.String())
		if integerPattern.MatchString(s) {
			f, err := strconv.ParseFloat(s, 64)
			return f, err == nil, err == nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false, false
		}
		return f, false, true
	}
	return 0, false, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Numericality requires the attribute to be a number or a numeric string,
// optionally integral and within bounds.
func Numericality(attribute string, bounds NumericBounds, opts ...Option) *Rule {
	return newRule(attribute, KindNumericality, numericCheck{bounds: bounds}, opts...)
}

// Integer is Numericality restricted to integral values.
func Integer(attribute string, opts ...Option) *Rule {
	return Numericality(attribute, NumericBounds{OnlyInteger: true}, opts...)
}
