package gormhook

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// Config selects the GORM dialect and connection string.
type Config struct {
	// Driver is one of postgres, mysql or sqlite.
	Driver string `env:"GORM_DRIVER" envDefault:"sqlite"`

	DSN string `env:"GORM_DSN" envDefault:"file::memory:?cache=shared"`

	// SkipDefaultTransaction disables the per-statement transaction GORM
	// opens for writes.
	SkipDefaultTransaction bool `env:"GORM_SKIP_DEFAULT_TRANSACTION" envDefault:"false"`
}

// Dialector returns the GORM dialector for cfg.
func Dialector(cfg Config) (gorm.Dialector, error) {
	if cfg.DSN == "" {
		return nil, ErrEmptyDSN
	}
	switch cfg.Driver {
	case "postgres", "pg", "postgresql":
		return postgres.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

// Open connects with cfg and installs the Plugin. build receives the opened
// connection so the validator can use a UniquenessChecker over it.
func Open(cfg Config, build func(db *gorm.DB) *validations.Validator, log *slog.Logger, opts ...Option) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: cfg.SkipDefaultTransaction,
	})
	if err != nil {
		return nil, fmt.Errorf("gormhook: open %s: %w", cfg.Driver, err)
	}
	if err := db.Use(New(build(db), opts...)); err != nil {
		return nil, fmt.Errorf("gormhook: install plugin: %w", err)
	}
	log.Info("gorm connection ready", slog.String("driver", cfg.Driver))
	return db, nil
}
