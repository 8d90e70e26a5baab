package gormhook

import (
	"context"
	"maps"
	"reflect"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// UniquenessChecker answers uniqueness rules with a COUNT over the target's
// table. Attributes are mapped to columns through the GORM schema, so field
// names, snake_case names and column tags all resolve.
type UniquenessChecker struct {
	db *gorm.DB
}

func NewUniquenessChecker(db *gorm.DB) *UniquenessChecker {
	return &UniquenessChecker{db: db}
}

// Exists implements validations.UniquenessChecker.
func (c *UniquenessChecker) Exists(ctx context.Context, q validations.UniquenessQuery) (bool, error) {
	if q.Target == nil {
		return false, ErrNoModel
	}
	// A fresh zero value keeps GORM from adding the target's primary key to
	// the WHERE clause.
	model := reflect.New(reflect.Indirect(reflect.ValueOf(q.Target)).Type()).Interface()

	tx := c.db.WithContext(ctx).Model(model)
	if err := tx.Statement.Parse(model); err != nil {
		return false, err
	}
	column := columnResolver(tx.Statement)

	conds := []clause.Expression{clause.Eq{Column: clause.Column{Name: column(q.Attribute)}, Value: q.Value}}
	for _, attr := range slices.Sorted(maps.Keys(q.Scope)) {
		conds = append(conds, clause.Eq{Column: clause.Column{Name: column(attr)}, Value: q.Scope[attr]})
	}
	if q.Identity != nil {
		conds = append(conds, clause.Neq{Column: clause.Column{Name: column(q.IdentityAttribute)}, Value: q.Identity})
	}

	var n int64
	if err := tx.Clauses(clause.Where{Exprs: conds}).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func columnResolver(stmt *gorm.Statement) func(string) string {
	return func(attr string) string {
		if stmt.Schema != nil {
			if f := stmt.Schema.LookUpField(attr); f != nil && f.DBName != "" {
				return f.DBName
			}
			if f := stmt.Schema.LookUpField(stmt.NamingStrategy.ColumnName("", attr)); f != nil && f.DBName != "" {
				return f.DBName
			}
		}
		return attr
	}
}

var _ validations.UniquenessChecker = (*UniquenessChecker)(nil)
