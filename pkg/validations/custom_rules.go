package validations

import (
	"context"
	"fmt"
	"reflect"
)

// BlockFunc is a caller-supplied predicate. When it returns false the message
// becomes the violation text, unless the rule has a custom message.
type BlockFunc func(ctx context.Context, target any) (ok bool, message string)

type blockCheck struct {
	fn BlockFunc
}

func (c blockCheck) run(ctx context.Context, e *evaluation) (outcome, error) {
	ok, msg := c.fn(ctx, e.target)
	if ok {
		return pass()
	}
	return outcome{violationType: "custom", message: msg}, nil
}

// Block registers fn as a rule for attribute. An empty attribute reports
// violations on BaseAttribute.
func Block(attribute string, fn BlockFunc, opts ...Option) *Rule {
	if fn == nil {
		panic("validations: Block requires a function")
	}
	if attribute == "" {
		attribute = BaseAttribute
	}
	return newRule(attribute, KindBlock, blockCheck{fn: fn}, opts...)
}

var (
	contextType = reflect.TypeFor[context.Context]()
	boolType    = reflect.TypeFor[bool]()
	stringType  = reflect.TypeFor[string]()
)

type methodCheck struct {
	method string
}

func (c methodCheck) run(ctx context.Context, e *evaluation) (outcome, error) {
	m := reflect.ValueOf(e.target).MethodByName(c.method)
	if !m.IsValid() {
		return outcome{}, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, typeName(e.target), c.method)
	}

	t := m.Type()
	var args []reflect.Value
	switch {
	case t.NumIn() == 0:
	case t.NumIn() == 1 && t.In(0) == contextType:
		args = []reflect.Value{reflect.ValueOf(&ctx).Elem()}
	default:
		return outcome{}, fmt.Errorf("%w: %s.%s", ErrInvalidMethod, typeName(e.target), c.method)
	}
	if t.NumOut() < 1 || t.NumOut() > 2 || t.Out(0) != boolType || (t.NumOut() == 2 && t.Out(1) != stringType) {
		return outcome{}, fmt.Errorf("%w: %s.%s", ErrInvalidMethod, typeName(e.target), c.method)
	}

	out := m.Call(args)
	if out[0].Bool() {
		return pass()
	}
	o := outcome{violationType: "custom"}
	if len(out) == 2 {
		o.message = out[1].String()
	}
	return o, nil
}

// Method delegates the predicate to the target's method named method. The
// method must have one of the signatures
//
//	func() bool
//	func() (bool, string)
//	func(context.Context) (bool, string)
//
// An empty attribute reports violations under the method name.
func Method(attribute, method string, opts ...Option) *Rule {
	if method == "" {
		panic("validations: Method requires a method name")
	}
	if attribute == "" {
		attribute = method
	}
	return newRule(attribute, KindMethod, methodCheck{method: method}, opts...)
}
