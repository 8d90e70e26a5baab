package pg

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UniquenessChecker answers uniqueness rules with a SELECT EXISTS query.
type UniquenessChecker struct {
	db      Querier
	columns map[string]string
}

type UniquenessOption func(*UniquenessChecker)

// WithColumn maps a validated attribute to a differently named column.
func WithColumn(attribute, column string) UniquenessOption {
	return func(c *UniquenessChecker) { c.columns[attribute] = column }
}

func NewUniquenessChecker(db Querier, opts ...UniquenessOption) *UniquenessChecker {
	c := &UniquenessChecker{db: db, columns: make(map[string]string)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exists implements validations.UniquenessChecker.
func (c *UniquenessChecker) Exists(ctx context.Context, q validations.UniquenessQuery) (bool, error) {
	sql, args, err := c.ExistsQuery(q)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := c.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ExistsQuery builds the SQL and arguments for q. Scope attributes are
// compared in name order; nil scope values match NULL.
func (c *UniquenessChecker) ExistsQuery(q validations.UniquenessQuery) (string, []any, error) {
	if q.Model == "" {
		return "", nil, ErrNoModel
	}
	var (
		where []string
		args  []any
	)
	eq := func(attribute string, value any) {
		col := c.column(attribute)
		if value == nil {
			where = append(where, col+" IS NULL")
			return
		}
		args = append(args, value)
		where = append(where, col+" = $"+strconv.Itoa(len(args)))
	}

	eq(q.Attribute, q.Value)
	scope := make([]string, 0, len(q.Scope))
	for name := range q.Scope {
		scope = append(scope, name)
	}
	slices.Sort(scope)
	for _, name := range scope {
		eq(name, q.Scope[name])
	}
	if q.Identity != nil {
		args = append(args, q.Identity)
		where = append(where, c.column(q.IdentityAttribute)+" <> $"+strconv.Itoa(len(args)))
	}

	sql := "SELECT EXISTS (SELECT 1 FROM " + pgx.Identifier(strings.Split(q.Model, ".")).Sanitize() +
		" WHERE " + strings.Join(where, " AND ") + ")"
	return sql, args, nil
}

func (c *UniquenessChecker) column(attribute string) string {
	if col, ok := c.columns[attribute]; ok {
		attribute = col
	}
	return pgx.Identifier{attribute}.Sanitize()
}

var _ validations.UniquenessChecker = (*UniquenessChecker)(nil)

