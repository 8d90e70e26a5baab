package logger

import (
	"log/slog"
	"strconv"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Model(name string) slog.Attr {
	return slog.String("model", name)
}

// ValidationContext records a context name under "validation_context".
func ValidationContext(name string) slog.Attr {
	return slog.String("validation_context", name)
}

func Operation(op validations.Operation) slog.Attr {
	return slog.String("operation", string(op))
}

// Violations groups messages per attribute under the key "violations".
// Empty or nil sets yield an empty Attr.
func Violations(errs *validations.ErrorSet) slog.Attr {
	if errs.Empty() {
		return slog.Attr{}
	}
	attrs := errs.Attributes()
	as := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		as = append(as, slog.Any(attr, errs.On(attr)))
	}
	return slog.Attr{Key: "violations", Value: slog.GroupValue(as...)}
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
