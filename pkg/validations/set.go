package validations

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Set is a finite collection that supports membership by exact equality.
// Within and Exclusion also accept slices, arrays and maps (keys) directly.
type Set interface {
	Contains(value any) bool
	Members() []any
}

type valueSet struct {
	members []any
}

// NewSet builds a Set from values in the given order.
func NewSet(values ...any) Set {
	return valueSet{members: slices.Clone(values)}
}

// SetOf builds a Set from typed values.
func SetOf[T comparable](values ...T) Set {
	members := make([]any, len(values))
	for i, v := range values {
		members[i] = v
	}
	return valueSet{members: members}
}

func (s valueSet) Contains(value any) bool {
	for _, m := range s.members {
		if equalValues(m, value) {
			return true
		}
	}
	return false
}

func (s valueSet) Members() []any {
	return slices.Clone(s.members)
}

// toSet adapts any set-like value. It panics for values that are not collections.
func toSet(set any) Set {
	if s, ok := set.(Set); ok {
		return s
	}
	rv := reflect.ValueOf(set)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		members := make([]any, rv.Len())
		for i := range rv.Len() {
			members[i] = rv.Index(i).Interface()
		}
		return valueSet{members: members}
	case reflect.Map:
		keys := rv.MapKeys()
		members := make([]any, len(keys))
		for i, k := range keys {
			members[i] = k.Interface()
		}
		// Map iteration order is random; sort for stable messages.
		slices.SortFunc(members, func(a, b any) int {
			return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
		})
		return valueSet{members: members}
	}
	panic(fmt.Sprintf("validations: %T is not a set-like collection", set))
}

func describeSet(s Set) string {
	members := s.Members()
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = formatValue(m)
	}
	return strings.Join(parts, ", ")
}
