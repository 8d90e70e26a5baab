package gormhook

import (
	"context"
	"errors"
	"reflect"

	"gorm.io/gorm"

	"github.com/dmitrymomot/validations/pkg/validations"
)

const pluginName = "validations"

// Callback names registered by Plugin.
const (
	callbackValidateCreate  = "validations:validate_create"
	callbackValidateUpdate  = "validations:validate_update"
	callbackTranslateCreate = "validations:translate_create"
	callbackTranslateUpdate = "validations:translate_update"
)

// Plugin validates models in GORM create and update callbacks. Invalid models
// abort the statement with a *validations.HaltError before any SQL runs;
// translated storage errors are replaced by a HaltError as well, so callers
// only need validations.IsHalted.
type Plugin struct {
	validator  *validations.Validator
	translator validations.ErrorTranslator
}

type Option func(*Plugin)

// WithErrorTranslator converts database errors into violations on the model.
func WithErrorTranslator(t validations.ErrorTranslator) Option {
	return func(p *Plugin) {
		if t != nil {
			p.translator = t
		}
	}
}

func New(v *validations.Validator, opts ...Option) *Plugin {
	p := &Plugin{validator: v, translator: validations.NoTranslation{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Plugin) Name() string { return pluginName }

// Initialize implements gorm.Plugin.
func (p *Plugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:before_create").Register(callbackValidateCreate, p.validate(validations.OperationSave)),
		cb.Update().Before("gorm:before_update").Register(callbackValidateUpdate, p.validate(validations.OperationUpdate)),
		cb.Create().After("gorm:create").Register(callbackTranslateCreate, p.translate),
		cb.Update().After("gorm:update").Register(callbackTranslateUpdate, p.translate),
	)
}

func (p *Plugin) validate(op validations.Operation) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Schema == nil {
			return
		}
		ctx := tx.Statement.Context
		for _, target := range targets(tx) {
			if err := p.before(ctx, op, target); err != nil {
				_ = tx.AddError(err)
				return
			}
		}
	}
}

// before enters the model's default context when the caller has not entered
// one, then runs the validator hook. Associations saved under a parent's
// context they do not declare validate in their own default context.
func (p *Plugin) before(ctx context.Context, op validations.Operation, target any) error {
	if !validations.AnyContext(ctx) {
		ctx = validations.EnterContext(ctx, p.validator.DefaultContextFor(ctx, target))
	}
	return p.validator.BeforePersist(ctx, op, target)
}

func (p *Plugin) translate(tx *gorm.DB) {
	if tx.Error == nil || validations.IsHalted(tx.Error) || !p.translator.Translates(tx.Error) {
		return
	}
	ts := targets(tx)
	if len(ts) != 1 {
		return
	}
	res, ok := ts[0].(validations.Resource)
	if !ok {
		return
	}
	errs := res.Errors()
	for _, v := range p.translator.Translate(tx.Error) {
		errs.Add(v)
	}
	tx.Error = &validations.HaltError{Errors: errs}
}

// targets returns the models a statement writes. Map updates are applied to
// the statement model first, so validation sees the new values.
func targets(tx *gorm.DB) []any {
	stmt := tx.Statement
	if attrs, ok := stmt.Dest.(map[string]any); ok {
		if stmt.Model == nil {
			return nil
		}
		if err := validations.AssignAttributes(stmt.Model, attrs); err != nil {
			_ = tx.AddError(err)
			return nil
		}
		return []any{stmt.Model}
	}

	rv := stmt.ReflectValue
	switch rv.Kind() {
	case reflect.Struct:
		if rv.CanAddr() {
			return []any{rv.Addr().Interface()}
		}
		return []any{rv.Interface()}
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, rv.Len())
		for i := range rv.Len() {
			elem := reflect.Indirect(rv.Index(i))
			if elem.Kind() != reflect.Struct {
				continue
			}
			if elem.CanAddr() {
				out = append(out, elem.Addr().Interface())
			} else {
				out = append(out, elem.Interface())
			}
		}
		return out
	}
	return nil
}

var _ gorm.Plugin = (*Plugin)(nil)
