// Package memstore is an in-memory persistence backend for the validations
// Repository. It stores copies of saved records keyed by type and identity,
// generates UUID identities for new records and answers uniqueness rules
// against what it holds.
//
//	store := memstore.New()
//	v := validations.NewValidator(registry, validations.WithUniquenessChecker(store))
//	repo := validations.NewRepository(v, store)
package memstore
