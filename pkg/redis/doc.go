// Package redis provides a Redis backed unique index for validations.
//
// Index stores one hash per model, attribute and scope that maps each value to
// the identity of the record owning it. It implements
// validations.UniquenessChecker, and Claim/Release keep the index current from
// the persistence layer. A claim lost to a concurrent writer yields
// ErrValueClaimed, which Index.ErrorTranslator reports as a "taken" violation.
//
//	client, err := redis.Connect(ctx, cfg)
//	idx := redis.NewIndex(client, redis.WithKeyPrefix(cfg.KeyPrefix))
//	v := validations.NewValidator(registry, validations.WithUniquenessChecker(idx))
package redis
