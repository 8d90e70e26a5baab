// Package validations provides contextual, declarative validation for
// persisted models.
//
// Rules are declared once per model type and grouped into named validation
// contexts (for example "default", "create", "publish"). A save or update
// runs inside exactly one active context and only the rules of that context
// are evaluated. Failures are collected into the model's ErrorSet instead of
// being returned as errors, so callers get every violation from one pass.
//
// # Architecture
//
// Core building blocks:
//   - Rule               - one check bound to an attribute: presence, format, length, ...
//   - RuleSet            - ordered rules of a single context
//   - ContextualRuleSet  - contexts of one model type with a default context
//   - Registry           - model type to ContextualRuleSet
//   - Validator          - evaluates rules and acts as a PrePersistHook
//   - Repository         - save/update entry point wrapping a Persister
//   - ErrorSet           - per-instance violation collection
//
// The validation context stack travels on context.Context. Entering a context
// returns a derived ctx, so the previous context is restored when the call
// returns regardless of how it exits, and concurrent saves never share state.
//
// # Usage
//
//	type User struct {
//	    validations.Validatable
//	    ID   string
//	    Name string
//	}
//
//	registry := validations.NewRegistry()
//	validations.Define[User](registry).Add(
//	    validations.Presence("name"),
//	    validations.LengthMax("name", 64, validations.On("create", "update")),
//	)
//
//	v := validations.NewValidator(registry)
//	repo := validations.NewRepository(v, persister)
//
//	ok, err := repo.Save(ctx, user, validations.WithContextName("create"))
//	if err != nil {
//	    // configuration error (unknown context) or storage failure
//	}
//	if !ok {
//	    for _, msg := range user.Errors().FullMessages() {
//	        // "Name must not be blank"
//	    }
//	}
//
// # Error Handling
//
// Validation failure is not an error: Save and Update return false with a nil
// error. Naming a context the model does not declare yields a
// *ConfigurationError (matching ErrUnknownContext) before any rule runs.
// Storage errors pass through unless an ErrorTranslator converts them into
// violations, as the pg and mongo adapters do for unique-key conflicts.
//
// # Messages
//
// Default messages use %{attribute} style placeholders and can be overridden
// per rule with Message or globally with WithMessages and LoadMessages.
// Every violation carries a "validation.<type>" translation key and its
// interpolation values for i18n layers.
package validations
