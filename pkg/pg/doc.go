// Package pg connects validations to PostgreSQL through pgx/v5.
//
// It provides:
//
//   - Config, Connect and Healthcheck for a *pgxpool.Pool with retrying startup;
//   - Migrate, running goose migrations (unique indexes live there);
//   - UniquenessChecker, backing uniqueness rules with SELECT EXISTS queries;
//   - ErrorTranslator, turning SQLSTATE 23505 into "taken" violations.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	v := validations.NewValidator(registry,
//	    validations.WithUniquenessChecker(pg.NewUniquenessChecker(pool)),
//	)
//	repo := validations.NewRepository(v, persister,
//	    validations.WithErrorTranslator(pg.NewErrorTranslator()),
//	)
//
// Table names come from the model's rule set (tableized type name or
// WithModelName); attribute names are used as column names unless remapped
// with WithColumn.
package pg
