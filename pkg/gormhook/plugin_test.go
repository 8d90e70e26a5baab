package gormhook_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmitrymomot/validations/pkg/gormhook"
	"github.com/dmitrymomot/validations/pkg/validations"
)

type member struct {
	validations.Validatable `gorm:"-"`

	ID    uint `gorm:"primaryKey"`
	Name  string
	Email string `gorm:"uniqueIndex"`
	Role  string
}

func memberRegistry() *validations.Registry {
	reg := validations.NewRegistry()
	validations.Define[member](reg).Add(
		validations.Presence("name"),
		validations.Within("role", []string{"admin", "member"}, validations.On("signup")),
		validations.Presence("email", validations.On("signup")),
	)
	return reg
}

// openDB returns a private in-memory database. The default transaction is
// skipped so uniqueness lookups can share the single connection.
func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&member{}))
	return db
}

func setup(t *testing.T, reg *validations.Registry, opts ...gormhook.Option) *gorm.DB {
	t.Helper()
	db := openDB(t)
	v := validations.NewValidator(reg, validations.WithUniquenessChecker(gormhook.NewUniquenessChecker(db)))
	require.NoError(t, db.Use(gormhook.New(v, opts...)))
	return db
}

func rows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&member{}).Count(&n).Error)
	return n
}

func TestPlugin_Create(t *testing.T) {
	t.Parallel()

	t.Run("invalid model is rejected before insert", func(t *testing.T) {
		t.Parallel()
		db := setup(t, memberRegistry())

		m := &member{Email: "a@example.com"}
		err := db.WithContext(context.Background()).Create(m).Error
		require.Error(t, err)
		assert.True(t, validations.IsHalted(err))

		var halt *validations.HaltError
		require.True(t, errors.As(err, &halt))
		assert.Equal(t, []string{"Name must not be blank"}, halt.Errors.FullMessages())
		assert.Equal(t, []string{"Name must not be blank"}, m.Errors().FullMessages())
		assert.Zero(t, m.ID)
		assert.Equal(t, int64(0), rows(t, db))
	})

	t.Run("valid model is inserted", func(t *testing.T) {
		t.Parallel()
		db := setup(t, memberRegistry())

		m := &member{Name: "Ann", Email: "ann@example.com"}
		ok, err := gormhook.Create(context.Background(), db, m, "")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotZero(t, m.ID)
		assert.Equal(t, int64(1), rows(t, db))
	})

	t.Run("named context applies its rules", func(t *testing.T) {
		t.Parallel()
		db := setup(t, memberRegistry())

		m := &member{Name: "Ann", Role: "owner"}
		ok, err := gormhook.Create(context.Background(), db, m, "signup")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.ElementsMatch(t, []string{"role", "email"}, m.Errors().Attributes())
		assert.Equal(t, int64(0), rows(t, db))

		m = &member{Name: "Ann", Role: "owner"}
		ok, err = gormhook.Create(context.Background(), db, m, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown context is a configuration error", func(t *testing.T) {
		t.Parallel()
		db := setup(t, memberRegistry())

		ok, err := gormhook.Create(context.Background(), db, &member{Name: "Ann"}, "archive")
		assert.False(t, ok)
		require.Error(t, err)
		assert.True(t, validations.IsConfigurationError(err))
		assert.Equal(t, int64(0), rows(t, db))
	})

	t.Run("batch halts on any invalid element", func(t *testing.T) {
		t.Parallel()
		db := setup(t, memberRegistry())

		batch := []member{{Name: "Ann", Email: "a@example.com"}, {Email: "b@example.com"}}
		err := db.Create(&batch).Error
		assert.True(t, validations.IsHalted(err))
		assert.Equal(t, int64(0), rows(t, db))
	})

	t.Run("unregistered models pass", func(t *testing.T) {
		t.Parallel()
		db := setup(t, validations.NewRegistry())

		require.NoError(t, db.Create(&member{}).Error)
		assert.Equal(t, int64(1), rows(t, db))
	})
}

type team struct {
	validations.Validatable `gorm:"-"`

	ID      uint `gorm:"primaryKey"`
	Name    string
	Players []player
}

type player struct {
	validations.Validatable `gorm:"-"`

	ID     uint `gorm:"primaryKey"`
	TeamID uint
	Nick   string
}

func TestPlugin_Associations(t *testing.T) {
	t.Parallel()

	newTeamDB := func(t *testing.T) *gorm.DB {
		t.Helper()
		reg := validations.NewRegistry()
		validations.Define[team](reg).Add(validations.Presence("name", validations.On("signup")))
		validations.Define[player](reg).Add(validations.Presence("nick"))
		db := setup(t, reg)
		require.NoError(t, db.AutoMigrate(&team{}, &player{}))
		return db
	}

	t.Run("associations validate in their own default context", func(t *testing.T) {
		t.Parallel()
		db := newTeamDB(t)

		tm := &team{Name: "Owls", Players: []player{{Nick: "ann"}, {Nick: "bea"}}}
		ok, err := gormhook.Create(context.Background(), db, tm, "signup")
		require.NoError(t, err)
		assert.True(t, ok)

		var n int64
		require.NoError(t, db.Model(&player{}).Count(&n).Error)
		assert.Equal(t, int64(2), n)
	})

	t.Run("invalid association halts the write", func(t *testing.T) {
		t.Parallel()
		db := newTeamDB(t)

		tm := &team{Name: "Owls", Players: []player{{Nick: ""}}}
		ok, err := gormhook.Create(context.Background(), db, tm, "signup")
		require.NoError(t, err)
		assert.False(t, ok)

		var n int64
		require.NoError(t, db.Model(&player{}).Count(&n).Error)
		assert.Zero(t, n)
	})
}

func TestPlugin_Update(t *testing.T) {
	t.Parallel()

	t.Run("save validates the changed model", func(t *testing.T) {
		t.Parallel()
		db := setup(t, memberRegistry())

		m := &member{Name: "Ann", Email: "ann@example.com"}
		require.NoError(t, db.Create(m).Error)

		m.Name = ""
		ok, err := gormhook.Save(context.Background(), db, m, "")
		require.NoError(t, err)
		assert.False(t, ok)

		var stored member
		require.NoError(t, db.First(&stored, m.ID).Error)
		assert.Equal(t, "Ann", stored.Name)
	})

	t.Run("map updates are assigned before validation", func(t *testing.T) {
		t.Parallel()
		db := setup(t, memberRegistry())

		m := &member{Name: "Ann", Email: "ann@example.com"}
		require.NoError(t, db.Create(m).Error)

		ok, err := gormhook.Updates(context.Background(), db, m, map[string]any{"name": ""}, "")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, m.Errors().Has("name"))

		ok, err = gormhook.Updates(context.Background(), db, m, map[string]any{"name": "Bea"}, "")
		require.NoError(t, err)
		assert.True(t, ok)

		var stored member
		require.NoError(t, db.First(&stored, m.ID).Error)
		assert.Equal(t, "Bea", stored.Name)
	})
}

func TestUniquenessChecker(t *testing.T) {
	t.Parallel()

	reg := validations.NewRegistry()
	validations.Define[member](reg).Add(validations.Uniqueness("email"))
	db := setup(t, reg)

	first := &member{Name: "Ann", Email: "ann@example.com"}
	ok, err := gormhook.Create(context.Background(), db, first, "")
	require.NoError(t, err)
	require.True(t, ok)

	dup := &member{Name: "Bea", Email: "ann@example.com"}
	ok, err = gormhook.Create(context.Background(), db, dup, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"Email is already taken"}, dup.Errors().FullMessages())

	// the record itself does not conflict with its own value
	first.Name = "Anna"
	ok, err = gormhook.Save(context.Background(), db, first, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPlugin_ErrorTranslator(t *testing.T) {
	t.Parallel()

	db := setup(t, validations.NewRegistry(), gormhook.WithErrorTranslator(gormhook.NewErrorTranslator("", nil)))
	require.NoError(t, db.Create(&member{Name: "Ann", Email: "ann@example.com"}).Error)

	dup := &member{Name: "Bea", Email: "ann@example.com"}
	ok, err := gormhook.Create(context.Background(), db, dup, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"Email is already taken"}, dup.Errors().FullMessages())
	assert.Equal(t, int64(1), rows(t, db))
}
