package validations

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// frame is one entry of the validation context stack. Frames are immutable;
// entering a context links a new frame in front of the current one, so an
// outer caller's view of the stack never changes.
type frame struct {
	name   string
	parent *frame
	depth  int
}

func frameFrom(ctx context.Context) *frame {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(contextKey{}).(*frame)
	return f
}

// EnterContext returns a child of ctx with name pushed on the validation context stack.
// The stack travels with ctx, so concurrent saves on different goroutines
// never observe each other's frames.
func EnterContext(ctx context.Context, name string) context.Context {
	parent := frameFrom(ctx)
	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	return context.WithValue(ctx, contextKey{}, &frame{name: name, parent: parent, depth: depth})
}

// InContext runs fn with name as the current validation context. The caller's
// ctx is left untouched, so the previous context is restored on every exit
// path, including panics.
func InContext(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	return fn(EnterContext(ctx, name))
}

// CurrentContext returns the innermost active validation context.
func CurrentContext(ctx context.Context) (string, bool) {
	f := frameFrom(ctx)
	if f == nil {
		return "", false
	}
	return f.name, true
}

// RequireCurrentContext is CurrentContext returning ErrNoActiveContext when the
// stack is empty.
func RequireCurrentContext(ctx context.Context) (string, error) {
	name, ok := CurrentContext(ctx)
	if !ok {
		return "", ErrNoActiveContext
	}
	return name, nil
}

// AnyContext reports whether a validation context is active.
func AnyContext(ctx context.Context) bool {
	return frameFrom(ctx) != nil
}

// ContextDepth returns the number of active validation contexts.
func ContextDepth(ctx context.Context) int {
	f := frameFrom(ctx)
	if f == nil {
		return 0
	}
	return f.depth
}

// ContextStack returns the active contexts, innermost first.
func ContextStack(ctx context.Context) []string {
	var out []string
	for f := frameFrom(ctx); f != nil; f = f.parent {
		out = append(out, f.name)
	}
	return out
}

// LogAttr is a logger context extractor that adds the current validation
// context to log records.
func LogAttr(ctx context.Context) (slog.Attr, bool) {
	name, ok := CurrentContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("validation_context", name), true
}
