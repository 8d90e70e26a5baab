package validations

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Registry maps model types to their ContextualRuleSet.
type Registry struct {
	mu     sync.RWMutex
	models map[reflect.Type]*ContextualRuleSet
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[reflect.Type]*ContextualRuleSet)}
}

// Register binds rules to the type of model. model may be a value or a pointer.
func (r *Registry) Register(model any, rules *ContextualRuleSet) {
	t := modelType(reflect.TypeOf(model))
	if t == nil || rules == nil {
		panic("validations: Register requires a model and a rule set")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[t] = rules
}

// Define creates, registers and returns the rule set of T. Calling it again for
// the same type returns the existing set.
//
//	validations.Define[User](reg).Add(
//		validations.Presence("name"),
//		validations.Within("phone_type", []string{"home", "mobile", "business"}),
//	)
func Define[T any](r *Registry, opts ...RuleSetOption) *ContextualRuleSet {
	t := modelType(reflect.TypeFor[T]())
	r.mu.Lock()
	defer r.mu.Unlock()
	if rules, ok := r.models[t]; ok {
		return rules
	}
	rules := NewContextualRuleSet(tableize(t.Name()), opts...)
	r.models[t] = rules
	return rules
}

// For returns the rule set registered for the type of target.
func (r *Registry) For(target any) (*ContextualRuleSet, bool) {
	t := modelType(reflect.TypeOf(target))
	if t == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules, ok := r.models[t]
	return rules, ok
}

// Lookup is For returning ErrNotRegistered for unknown types.
func (r *Registry) Lookup(target any) (*ContextualRuleSet, error) {
	rules, ok := r.For(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, typeName(target))
	}
	return rules, nil
}

func modelType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// tableize turns a type name into a plural snake_case table name.
func tableize(name string) string {
	s := snakeCase(name)
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	}
	return s + "s"
}
