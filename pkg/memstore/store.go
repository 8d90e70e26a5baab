package memstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/validations/pkg/validations"
)

var (
	ErrNotPointer          = errors.New("memstore: target must be a non-nil pointer to a struct")
	ErrNoIdentity          = errors.New("memstore: target has no identity attribute")
	ErrUnsupportedIdentity = errors.New("memstore: identity must be a string or uuid.UUID to be generated")
	ErrNotFound            = errors.New("memstore: record not found")
)

// Store keeps copies of persisted records in memory. Records without an
// identity get a random UUID on their first save. It implements
// validations.Persister and validations.UniquenessChecker, which makes it a
// drop-in backend for tests and prototypes.
type Store struct {
	mu       sync.RWMutex
	identity string
	records  map[reflect.Type]map[any]reflect.Value
}

type Option func(*Store)

// WithIdentityAttribute names the identity attribute. Defaults to "id".
func WithIdentityAttribute(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.identity = name
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		identity: validations.DefaultIdentityAttribute,
		records:  make(map[reflect.Type]map[any]reflect.Value),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Persist implements validations.Persister.
func (s *Store) Persist(ctx context.Context, op validations.Operation, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotPointer
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.records[rv.Type()]

	var id any
	if op == validations.OperationUpdate {
		current, ok := validations.ReadAttribute(target, s.identity)
		if !ok {
			return ErrNoIdentity
		}
		if _, exists := bucket[current]; !exists {
			return fmt.Errorf("%w: %v", ErrNotFound, current)
		}
		id = current
	} else {
		var err error
		if id, err = s.ensureIdentity(target); err != nil {
			return err
		}
	}

	snapshot := reflect.New(rv.Elem().Type())
	snapshot.Elem().Set(rv.Elem())
	if bucket == nil {
		bucket = make(map[any]reflect.Value)
		s.records[rv.Type()] = bucket
	}
	bucket[id] = snapshot
	return nil
}

func (s *Store) ensureIdentity(target any) (any, error) {
	current, ok := validations.ReadAttribute(target, s.identity)
	if !ok {
		return nil, ErrNoIdentity
	}
	if current == nil {
		return nil, ErrUnsupportedIdentity
	}
	if !reflect.ValueOf(current).IsZero() {
		return current, nil
	}

	var id any
	switch current.(type) {
	case string:
		id = uuid.NewString()
	case uuid.UUID:
		id = uuid.New()
	default:
		return nil, ErrUnsupportedIdentity
	}
	if err := validations.AssignAttributes(target, map[string]any{s.identity: id}); err != nil {
		return nil, err
	}
	return id, nil
}

// Exists implements validations.UniquenessChecker over the records of the
// target's type.
func (s *Store) Exists(ctx context.Context, q validations.UniquenessQuery) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rt := reflect.TypeOf(q.Target)
	if rt == nil || rt.Kind() != reflect.Pointer {
		return false, ErrNotPointer
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, rec := range s.records[rt] {
		if q.Identity != nil && equal(id, q.Identity) {
			continue
		}
		if matches(rec.Interface(), q) {
			return true, nil
		}
	}
	return false, nil
}

func matches(rec any, q validations.UniquenessQuery) bool {
	v, _ := validations.ReadAttribute(rec, q.Attribute)
	if !equal(v, q.Value) {
		return false
	}
	for attr, want := range q.Scope {
		got, _ := validations.ReadAttribute(rec, attr)
		if !equal(got, want) {
			return false
		}
	}
	return true
}

// Find copies the stored record of type T with the given identity into a new value.
func Find[T any](s *Store, id any) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[reflect.TypeFor[*T]()][id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	out := new(T)
	reflect.ValueOf(out).Elem().Set(rec.Elem())
	return out, nil
}

// Delete removes target's record. Missing records are ignored.
func (s *Store) Delete(target any) {
	id, ok := validations.ReadAttribute(target, s.identity)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records[reflect.TypeOf(target)], id)
}

// Len returns the number of stored records of all types.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, bucket := range s.records {
		n += len(bucket)
	}
	return n
}

func equal(a, b any) bool {
	return reflect.DeepEqual(deref(a), deref(b))
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

var (
	_ validations.Persister         = (*Store)(nil)
	_ validations.UniquenessChecker = (*Store)(nil)
)
