package validations

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Well-known context names.
const (
	DefaultContext = "default"
	ContextCreate  = "create"
	ContextUpdate  = "update"
)

// RuleSet is the ordered list of rules of one validation context.
type RuleSet struct {
	name  string
	rules []*Rule
}

func newRuleSet(name string) *RuleSet {
	return &RuleSet{name: name}
}

func (rs *RuleSet) Name() string { return rs.name }

// Add appends rule. Evaluation follows insertion order.
func (rs *RuleSet) Add(rule *Rule) {
	if rule != nil {
		rs.rules = append(rs.rules, rule)
	}
}

func (rs *RuleSet) Rules() []*Rule { return slices.Clone(rs.rules) }

func (rs *RuleSet) Len() int { return len(rs.rules) }

// Attributes returns the attributes with at least one rule, in declaration order.
func (rs *RuleSet) Attributes() []string {
	var out []string
	for _, r := range rs.rules {
		if !slices.Contains(out, r.attribute) {
			out = append(out, r.attribute)
		}
	}
	return out
}

// RulesFor returns the rules declared for attribute.
func (rs *RuleSet) RulesFor(attribute string) []*Rule {
	var out []*Rule
	for _, r := range rs.rules {
		if r.attribute == attribute {
			out = append(out, r)
		}
	}
	return out
}

// Validate evaluates every rule against target and appends each violation to
// errs. It does not stop at the first failure. The result is true when this
// pass produced no violations. An error aborts the pass; it is only returned for
// exceptional conditions such as a failing storage lookup.
func (rs *RuleSet) Validate(ctx context.Context, target any, env Env, errs *ErrorSet) (bool, error) {
	valid := true
	for _, rule := range rs.rules {
		v, err := rule.Validate(ctx, target, env)
		if err != nil {
			return false, fmt.Errorf("validations: %s rule on %q: %w", rule.kind, rule.attribute, err)
		}
		if v != nil {
			valid = false
			errs.Add(*v)
		}
	}
	return valid, nil
}

// RuleSetOption configures a ContextualRuleSet.
type RuleSetOption func(*ContextualRuleSet)

// WithDefaultContext sets the context used by rules declared without On and
// by saves that do not name a context.
func WithDefaultContext(name string) RuleSetOption {
	return func(c *ContextualRuleSet) {
		if name != "" {
			c.defaultContext = name
		}
	}
}

// WithModelName overrides the table or collection name passed to storage adapters.
func WithModelName(name string) RuleSetOption {
	return func(c *ContextualRuleSet) {
		if name != "" {
			c.model = name
		}
	}
}

// ContextualRuleSet holds the rule sets of one model type keyed by context.
// It is populated at definition time and only read afterwards.
type ContextualRuleSet struct {
	mu             sync.RWMutex
	model          string
	defaultContext string
	order          []string
	sets           map[string]*RuleSet
}

// NewContextualRuleSet returns an empty registry for model.
func NewContextualRuleSet(model string, opts ...RuleSetOption) *ContextualRuleSet {
	c := &ContextualRuleSet{
		model:          model,
		defaultContext: DefaultContext,
		sets:           make(map[string]*RuleSet),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ContextualRuleSet) Model() string { return c.model }

func (c *ContextualRuleSet) DefaultContext() string { return c.defaultContext }

// Add registers rules in every context they declare, or in the default
// context when they declare none.
func (c *ContextualRuleSet) Add(rules ...*Rule) *ContextualRuleSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		contexts := rule.contexts
		if len(contexts) == 0 {
			contexts = []string{c.defaultContext}
		}
		for _, name := range contexts {
			c.ruleSetFor(name).Add(rule)
		}
	}
	return c
}

// RuleSetFor returns the rule set of a context, creating it on first
// reference. It is meant for definition time; validation never creates sets.
func (c *ContextualRuleSet) RuleSetFor(name string) *RuleSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ruleSetFor(name)
}

func (c *ContextualRuleSet) ruleSetFor(name string) *RuleSet {
	if name == "" {
		name = c.defaultContext
	}
	rs, ok := c.sets[name]
	if !ok {
		rs = newRuleSet(name)
		c.sets[name] = rs
		c.order = append(c.order, name)
	}
	return rs
}

// Context looks up a rule set without creating it.
func (c *ContextualRuleSet) Context(name string) (*RuleSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rs, ok := c.sets[c.resolve(name)]
	return rs, ok
}

// Contexts lists the registered context names in registration order.
func (c *ContextualRuleSet) Contexts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Empty reports whether no rules were declared for any context.
func (c *ContextualRuleSet) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, rs := range c.sets {
		if rs.Len() > 0 {
			return false
		}
	}
	return true
}

// Clear drops every context.
func (c *ContextualRuleSet) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets = make(map[string]*RuleSet)
	c.order = nil
}

// ValidContext reports whether name may be used for validation. Any name is
// accepted while no rules exist at all.
func (c *ContextualRuleSet) ValidContext(name string) bool {
	if c.Empty() {
		return true
	}
	_, ok := c.Context(name)
	return ok
}

// AssertValidContext returns a *ConfigurationError for contexts that were
// never registered.
func (c *ContextualRuleSet) AssertValidContext(name string) error {
	if c.ValidContext(name) {
		return nil
	}
	return &ConfigurationError{Model: c.model, Context: c.resolve(name), Known: c.Contexts()}
}

// Validate asserts that name is a registered context and evaluates its rules
// against target, appending violations to errs.
func (c *ContextualRuleSet) Validate(ctx context.Context, target any, name string, env Env, errs *ErrorSet) (bool, error) {
	if err := c.AssertValidContext(name); err != nil {
		return false, err
	}
	rs, ok := c.Context(name)
	if !ok {
		return true, nil
	}
	if env.Model == "" {
		env.Model = c.model
	}
	return rs.Validate(ctx, target, env, errs)
}

func (c *ContextualRuleSet) resolve(name string) string {
	if name == "" {
		return c.defaultContext
	}
	return name
}
