package mongo

import (
	"context"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// Counter is satisfied by *mongo.Collection.
type Counter interface {
	CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error)
}

// UniquenessChecker answers uniqueness rules with CountDocuments limited to one match.
type UniquenessChecker struct {
	collection    func(name string) Counter
	identityField string
}

type UniquenessOption func(*UniquenessChecker)

// WithIdentityField sets the document field holding record identity ("_id" by default).
func WithIdentityField(field string) UniquenessOption {
	return func(c *UniquenessChecker) {
		if field != "" {
			c.identityField = field
		}
	}
}

// NewUniquenessChecker checks collections of db named after the model.
func NewUniquenessChecker(db *mongo.Database, opts ...UniquenessOption) *UniquenessChecker {
	return NewUniquenessCheckerFunc(func(name string) Counter { return db.Collection(name) }, opts...)
}

// NewUniquenessCheckerFunc resolves collections with fn.
func NewUniquenessCheckerFunc(fn func(name string) Counter, opts ...UniquenessOption) *UniquenessChecker {
	c := &UniquenessChecker{collection: fn, identityField: "_id"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *UniquenessChecker) Exists(ctx context.Context, q validations.UniquenessQuery) (bool, error) {
	if q.Model == "" {
		return false, ErrNoCollection
	}
	n, err := c.collection(q.Model).CountDocuments(ctx, c.Filter(q), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Filter builds the query document for q. Scope fields follow name order.
func (c *UniquenessChecker) Filter(q validations.UniquenessQuery) bson.D {
	filter := bson.D{{Key: q.Attribute, Value: q.Value}}
	scope := make([]string, 0, len(q.Scope))
	for name := range q.Scope {
		scope = append(scope, name)
	}
	slices.Sort(scope)
	for _, name := range scope {
		filter = append(filter, bson.E{Key: name, Value: q.Scope[name]})
	}
	if q.Identity != nil {
		filter = append(filter, bson.E{Key: c.identityField, Value: bson.D{{Key: "$ne", Value: q.Identity}}})
	}
	return filter
}

var _ validations.UniquenessChecker = (*UniquenessChecker)(nil)
