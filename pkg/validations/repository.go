package validations

import (
	"context"
	"io"
	"log/slog"
)

// SaveState is a step of the save/update lifecycle.
type SaveState string

const (
	StateIdle       SaveState = "idle"
	StateValidating SaveState = "validating"
	StatePersisting SaveState = "persisting"
	StateDone       SaveState = "done"
	StateHalted     SaveState = "halted"
)

// Repository wraps a Persister with validation. Save and Update push a
// validation context, run the pre-persist hooks (the Validator first) and only
// then invoke the persister.
type Repository struct {
	validator  *Validator
	persister  Persister
	hooks      []PrePersistHook
	translator ErrorTranslator
	logger     *slog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithHooks appends hooks that run after validation.
func WithHooks(hooks ...PrePersistHook) RepositoryOption {
	return func(r *Repository) {
		for _, h := range hooks {
			if h != nil {
				r.hooks = append(r.hooks, h)
			}
		}
	}
}

// WithErrorTranslator installs a translator for persistence errors.
func WithErrorTranslator(t ErrorTranslator) RepositoryOption {
	return func(r *Repository) {
		if t != nil {
			r.translator = t
		}
	}
}

func WithRepositoryLogger(l *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRepository creates a validating repository.
func NewRepository(v *Validator, p Persister, opts ...RepositoryOption) *Repository {
	r := &Repository{
		validator:  v,
		persister:  p,
		hooks:      []PrePersistHook{v},
		translator: NoTranslation{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type saveOptions struct {
	context string
}

// SaveOption configures a single Save or Update call.
type SaveOption func(*saveOptions)

// WithContextName validates under name instead of the default context.
func WithContextName(name string) SaveOption {
	return func(o *saveOptions) { o.context = name }
}

// Save validates target and persists it when valid. It returns false with a
// nil error when validation (or a translated persistence error) failed; the
// reasons are left in target.Errors(). A *ConfigurationError is returned for
// unknown contexts before any rule runs.
func (r *Repository) Save(ctx context.Context, target Resource, opts ...SaveOption) (bool, error) {
	return r.persist(ctx, OperationSave, target, nil, opts)
}

// Update assigns attrs to target and saves it.
func (r *Repository) Update(ctx context.Context, target Resource, attrs map[string]any, opts ...SaveOption) (bool, error) {
	return r.persist(ctx, OperationUpdate, target, attrs, opts)
}

func (r *Repository) persist(ctx context.Context, op Operation, target Resource, attrs map[string]any, opts []SaveOption) (bool, error) {
	if target == nil {
		return false, ErrNilTarget
	}
	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}
	name := o.context
	if name == "" {
		name = r.validator.DefaultContextFor(ctx, target)
	}
	if err := r.validator.AssertValidContext(target, name); err != nil {
		return false, err
	}
	if err := AssignAttributes(target, attrs); err != nil {
		return false, err
	}

	ctx = EnterContext(ctx, name)
	log := r.logger.With(slog.String("operation", string(op)), slog.String("model", typeName(target)))

	r.transition(ctx, log, StateIdle, StateValidating)
	for _, hook := range r.hooks {
		if err := hook.BeforePersist(ctx, op, target); err != nil {
			if IsHalted(err) {
				r.transition(ctx, log, StateValidating, StateHalted)
				return false, nil
			}
			return false, err
		}
	}

	r.transition(ctx, log, StateValidating, StatePersisting)
	if err := r.persister.Persist(ctx, op, target); err != nil {
		if !r.translator.Translates(err) {
			return false, err
		}
		errs := target.Errors()
		for _, v := range r.translator.Translate(err) {
			errs.Add(v)
		}
		log.InfoContext(ctx, "persistence error translated", slog.Int("violations", errs.Len()), slog.String("error", err.Error()))
		r.transition(ctx, log, StatePersisting, StateHalted)
		return false, nil
	}
	r.transition(ctx, log, StatePersisting, StateDone)
	return true, nil
}

func (r *Repository) transition(ctx context.Context, log *slog.Logger, from, to SaveState) {
	log.DebugContext(ctx, "save state", slog.String("from", string(from)), slog.String("to", string(to)))
}
