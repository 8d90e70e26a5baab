package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// HashStore is the subset of redis.Cmdable used by Index.
type HashStore interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSetNX(ctx context.Context, key, field string, value any) *redis.BoolCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
}

// Index is a unique index kept in Redis hashes, one hash per model,
// attribute and scope, mapping values to the identity of the owning record.
// It serves uniqueness rules for stores without native unique constraints.
type Index struct {
	db     HashStore
	prefix string
}

type IndexOption func(*Index)

func WithKeyPrefix(prefix string) IndexOption {
	return func(i *Index) {
		if prefix != "" {
			i.prefix = prefix
		}
	}
}

func NewIndex(db HashStore, opts ...IndexOption) *Index {
	i := &Index{db: db, prefix: "validations:unique"}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Key returns the hash key for q: prefix:model:attribute[:scope=value...].
func (i *Index) Key(q validations.UniquenessQuery) string {
	parts := []string{i.prefix, q.Model, q.Attribute}
	scope := make([]string, 0, len(q.Scope))
	for name := range q.Scope {
		scope = append(scope, name)
	}
	slices.Sort(scope)
	for _, name := range scope {
		parts = append(parts, name+"="+field(q.Scope[name]))
	}
	return strings.Join(parts, ":")
}

// Exists reports whether the value belongs to a record other than q.Identity.
func (i *Index) Exists(ctx context.Context, q validations.UniquenessQuery) (bool, error) {
	owner, err := i.db.HGet(ctx, i.Key(q), field(q.Value)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return q.Identity == nil || owner != field(q.Identity), nil
}

// Claim records q.Identity as the owner of the value. Claiming a value the
// same record already owns succeeds; otherwise ErrValueClaimed is returned.
func (i *Index) Claim(ctx context.Context, q validations.UniquenessQuery) error {
	if q.Identity == nil {
		return ErrNoIdentity
	}
	key, value, id := i.Key(q), field(q.Value), field(q.Identity)
	ok, err := i.db.HSetNX(ctx, key, value, id).Result()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	owner, err := i.db.HGet(ctx, key, value).Result()
	if err != nil {
		return err
	}
	if owner != id {
		return ErrValueClaimed
	}
	return nil
}

// Release removes the value from the index.
func (i *Index) Release(ctx context.Context, q validations.UniquenessQuery) error {
	return i.db.HDel(ctx, i.Key(q), field(q.Value)).Err()
}

// ErrorTranslator turns ErrValueClaimed into a "taken" violation on
// attribute. A nil messages table uses the defaults.
func (i *Index) ErrorTranslator(attribute string, messages validations.Messages) validations.ErrorTranslator {
	if messages == nil {
		messages = validations.DefaultMessages()
	}
	return claimTranslator{attribute: attribute, messages: messages}
}

type claimTranslator struct {
	attribute string
	messages  validations.Messages
}

func (t claimTranslator) Translates(err error) bool { return errors.Is(err, ErrValueClaimed) }

func (t claimTranslator) Translate(err error) []validations.Violation {
	if !t.Translates(err) {
		return nil
	}
	v := validations.NewViolation(t.attribute, "taken", t.messages.Format("taken", t.attribute, nil))
	v.Kind = validations.KindUniqueness
	return []validations.Violation{v}
}

func field(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	return fmt.Sprint(v)
}

var _ validations.UniquenessChecker = (*Index)(nil)
