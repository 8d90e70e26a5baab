// Package mongo connects validations to MongoDB through mongo-driver/v2.
//
// Config, New and Healthcheck manage the client with retrying startup.
// UniquenessChecker backs uniqueness rules with a limited CountDocuments
// query on the collection named after the model, excluding the validated
// document by "_id". ErrorTranslator turns E11000 duplicate key errors from
// unique indexes into "taken" violations.
//
// # Usage
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "app")
//	if err != nil {
//		return err
//	}
//	v := validations.NewValidator(registry,
//		validations.WithUniquenessChecker(mongo.NewUniquenessChecker(db)),
//		validations.WithIdentityAttribute("ID"),
//	)
//	repo := validations.NewRepository(v, persister,
//		validations.WithErrorTranslator(mongo.NewErrorTranslator(nil)),
//	)
package mongo
