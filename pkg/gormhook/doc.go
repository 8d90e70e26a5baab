// Package gormhook runs model validation inside GORM create and update
// callbacks.
//
// Install the plugin once on the *gorm.DB:
//
//	v := validations.NewValidator(registry,
//	    validations.WithUniquenessChecker(gormhook.NewUniquenessChecker(db)),
//	)
//	if err := db.Use(gormhook.New(v)); err != nil {
//	    return err
//	}
//
// Statements executed without an active validation context validate in the
// model's default context. To pick a context use Create, Save or Updates, or
// enter one on the statement context with validations.EnterContext.
//
// An invalid model aborts the statement before SQL is generated and the
// returned error matches validations.ErrHalted; the violations are on the
// model's ErrorSet. Create, Save and Updates report that case as false with a
// nil error.
package gormhook
