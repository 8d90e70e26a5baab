package gormhook_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dmitrymomot/validations/pkg/gormhook"
	"github.com/dmitrymomot/validations/pkg/validations"
)

func TestErrorTranslator(t *testing.T) {
	t.Parallel()

	tr := gormhook.NewErrorTranslator("login", nil)

	tests := []struct {
		name string
		err  error
		attr string
	}{
		{"sqlite", errors.New("UNIQUE constraint failed: members.email"), "email"},
		{"mysql", errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'members.idx_members_email'"), "idx_members_email"},
		{"translated gorm error", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), "login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.True(t, tr.Translates(tt.err))
			vs := tr.Translate(tt.err)
			require.Len(t, vs, 1)
			assert.Equal(t, tt.attr, vs[0].Attribute)
			assert.Equal(t, "taken", vs[0].Type)
			assert.Equal(t, validations.KindUniqueness, vs[0].Kind)
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		t.Parallel()
		assert.False(t, tr.Translates(gorm.ErrRecordNotFound))
		assert.False(t, tr.Translates(nil))
		assert.Nil(t, tr.Translate(gorm.ErrRecordNotFound))
	})

	t.Run("base attribute without fallback", func(t *testing.T) {
		t.Parallel()
		vs := gormhook.NewErrorTranslator("", nil).Translate(gorm.ErrDuplicatedKey)
		require.Len(t, vs, 1)
		assert.Equal(t, validations.BaseAttribute, vs[0].Attribute)
	})
}
