package gormhook

import (
	"context"

	"gorm.io/gorm"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// Save persists target with db.Save under the named validation context (the
// model default when empty). Like Repository.Save it returns false with a nil
// error when validation or a translated database error rejected the write.
// db must have the Plugin installed. An unknown contextName is reported as a
// *validations.ConfigurationError before any callback runs.
func Save(ctx context.Context, db *gorm.DB, target any, contextName string) (bool, error) {
	return write(ctx, db, target, contextName, func(tx *gorm.DB) *gorm.DB { return tx.Save(target) })
}

// Create is Save using db.Create.
func Create(ctx context.Context, db *gorm.DB, target any, contextName string) (bool, error) {
	return write(ctx, db, target, contextName, func(tx *gorm.DB) *gorm.DB { return tx.Create(target) })
}

// Updates assigns attrs to target and saves the changed columns.
func Updates(ctx context.Context, db *gorm.DB, target any, attrs map[string]any, contextName string) (bool, error) {
	return write(ctx, db, target, contextName, func(tx *gorm.DB) *gorm.DB { return tx.Model(target).Updates(attrs) })
}

func write(ctx context.Context, db *gorm.DB, target any, contextName string, exec func(*gorm.DB) *gorm.DB) (bool, error) {
	if contextName != "" {
		// An explicitly named context must exist on the model; inherited ones
		// fall back to the model default inside the callbacks.
		if p, ok := db.Config.Plugins[pluginName].(*Plugin); ok {
			if err := p.validator.AssertValidContext(target, contextName); err != nil {
				return false, err
			}
		}
		ctx = validations.EnterContext(ctx, contextName)
	}
	err := exec(db.WithContext(ctx)).Error
	switch {
	case err == nil:
		return true, nil
	case validations.IsHalted(err):
		return false, nil
	}
	return false, err
}
