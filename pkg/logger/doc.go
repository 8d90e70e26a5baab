// Package logger builds context-aware slog loggers with functional options.
//
// New creates a *slog.Logger whose handler (text or JSON) is wrapped by
// LogHandlerDecorator. The decorator runs every registered ContextExtractor
// against the record's context, so request-scoped values such as the active
// validation context are attached to each record without threading loggers
// through call chains.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("billing"),
//	    logger.WithValidationContext(),
//	)
//	logger.SetAsDefault(log)
//
//	v := validations.NewValidator(registry, validations.WithLogger(log))
//
// Options:
//
//   - WithDevelopment / WithStaging / WithProduction - presets per environment.
//   - WithFormat / WithTextFormatter / WithJSONFormatter - output format.
//   - WithLevel, WithAttr, WithOutput, WithHandlerOptions.
//   - WithContextExtractors / WithContextValue / WithValidationContext.
//
// NewFromConfig builds the same logger from a Config loaded with pkg/config.
//
// Attribute helpers in attr.go (Model, Operation, Violations, Error, ...)
// keep key names consistent. Error and Errors return an empty Attr for nil
// errors, so they can be passed without a nil check.
package logger
