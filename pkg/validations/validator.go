package validations

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Validator evaluates registered rules against targets. It implements
// PrePersistHook so persistence layers can invoke it before writing.
type Validator struct {
	registry   *Registry
	messages   Messages
	uniqueness UniquenessChecker
	identity   string
	strict     bool
	logger     *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithMessages overrides entries of the default message table.
func WithMessages(m Messages) ValidatorOption {
	return func(v *Validator) {
		v.messages = v.messages.Merge(m)
	}
}

// WithUniquenessChecker sets the storage adapter used by uniqueness rules.
func WithUniquenessChecker(c UniquenessChecker) ValidatorOption {
	return func(v *Validator) { v.uniqueness = c }
}

// WithIdentityAttribute sets the attribute holding record identity ("id" by default).
func WithIdentityAttribute(name string) ValidatorOption {
	return func(v *Validator) {
		if name != "" {
			v.identity = name
		}
	}
}

// WithStrictRegistration makes validation of unregistered types fail with
// ErrNotRegistered instead of passing with no rules.
func WithStrictRegistration(strict bool) ValidatorOption {
	return func(v *Validator) { v.strict = strict }
}

func WithLogger(l *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewValidator creates a validator over registry.
func NewValidator(registry *Registry, opts ...ValidatorOption) *Validator {
	if registry == nil {
		registry = NewRegistry()
	}
	v := &Validator{
		registry: registry,
		messages: DefaultMessages(),
		identity: DefaultIdentityAttribute,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Validator) Registry() *Registry { return v.registry }

// rulesFor returns the rule set of target, an empty one for unregistered types.
func (v *Validator) rulesFor(target any) (*ContextualRuleSet, error) {
	rules, ok := v.registry.For(target)
	if ok {
		return rules, nil
	}
	if v.strict {
		return nil, errors.Join(ErrNotRegistered, errors.New(typeName(target)))
	}
	return NewContextualRuleSet(tableize(typeName(target))), nil
}

// DefaultContextFor resolves the context a save uses when none is named:
// the innermost active context when the model declares it, else the model's
// default context.
func (v *Validator) DefaultContextFor(ctx context.Context, target any) string {
	rules, err := v.rulesFor(target)
	if err != nil {
		if name, ok := CurrentContext(ctx); ok {
			return name
		}
		return DefaultContext
	}
	if name, ok := CurrentContext(ctx); ok && rules.ValidContext(name) {
		return name
	}
	return rules.DefaultContext()
}

// AssertValidContext fails with a *ConfigurationError when name is unknown to
// the model of target.
func (v *Validator) AssertValidContext(target any, name string) error {
	rules, err := v.rulesFor(target)
	if err != nil {
		return err
	}
	return rules.AssertValidContext(name)
}

// Validate runs the rules of contextName against target and returns the
// resulting ErrorSet. An empty contextName resolves like DefaultContextFor.
// Targets implementing Resource get their own set cleared and refilled. When
// a rule fails with an error the set is cleared and nil is returned.
func (v *Validator) Validate(ctx context.Context, target any, contextName string) (*ErrorSet, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	rules, err := v.rulesFor(target)
	if err != nil {
		return nil, err
	}
	if contextName == "" {
		contextName = v.DefaultContextFor(ctx, target)
	}

	errs := NewErrorSet()
	if res, ok := target.(Resource); ok {
		errs = res.Errors()
		errs.Clear()
	}

	env := Env{
		Model:             rules.Model(),
		Messages:          v.messages,
		Uniqueness:        v.uniqueness,
		IdentityAttribute: v.identity,
	}
	valid, err := rules.Validate(ctx, target, contextName, env, errs)
	if err != nil {
		errs.Clear()
		return nil, err
	}
	v.logger.DebugContext(ctx, "validated",
		slog.String("model", rules.Model()),
		slog.String("context", contextName),
		slog.Bool("valid", valid),
		slog.Int("violations", errs.Len()),
	)
	return errs, nil
}

// Valid reports whether target passes the rules of contextName.
func (v *Validator) Valid(ctx context.Context, target any, contextName string) (bool, error) {
	errs, err := v.Validate(ctx, target, contextName)
	if err != nil {
		return false, err
	}
	return errs.Empty(), nil
}

// BeforePersist validates target and returns a *HaltError when it is
// invalid. The current validation context is used when target's model
// declares it, the model default otherwise. Without an active context it does
// nothing, so direct persistence that bypasses a validating entry point is
// not validated.
func (v *Validator) BeforePersist(ctx context.Context, op Operation, target any) error {
	if !AnyContext(ctx) {
		return nil
	}
	name := v.DefaultContextFor(ctx, target)
	errs, err := v.Validate(ctx, target, name)
	if err != nil {
		return err
	}
	if !errs.Empty() {
		v.logger.InfoContext(ctx, "persistence halted",
			slog.String("operation", string(op)),
			slog.String("context", name),
			slog.Any("attributes", errs.Attributes()),
		)
		return &HaltError{Errors: errs}
	}
	return nil
}
