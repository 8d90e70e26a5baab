package validations_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validations/pkg/validations"
)

func TestContextStack(t *testing.T) {
	t.Parallel()

	t.Run("empty stack", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		_, ok := validations.CurrentContext(ctx)
		assert.False(t, ok)
		assert.False(t, validations.AnyContext(ctx))
		assert.Equal(t, 0, validations.ContextDepth(ctx))
		assert.Empty(t, validations.ContextStack(ctx))
		_, err := validations.RequireCurrentContext(ctx)
		assert.ErrorIs(t, err, validations.ErrNoActiveContext)
	})

	t.Run("nested contexts restore on exit", func(t *testing.T) {
		t.Parallel()
		root := context.Background()
		err := validations.InContext(root, "create", func(ctx context.Context) error {
			name, err := validations.RequireCurrentContext(ctx)
			require.NoError(t, err)
			assert.Equal(t, "create", name)

			inner := validations.InContext(ctx, "publish", func(ctx context.Context) error {
				assert.Equal(t, []string{"publish", "create"}, validations.ContextStack(ctx))
				assert.Equal(t, 2, validations.ContextDepth(ctx))
				return errors.New("boom")
			})
			assert.EqualError(t, inner, "boom")

			name, _ = validations.CurrentContext(ctx)
			assert.Equal(t, "create", name)
			assert.Equal(t, 1, validations.ContextDepth(ctx))
			return nil
		})
		require.NoError(t, err)
		assert.False(t, validations.AnyContext(root))
	})

	t.Run("restored after panic", func(t *testing.T) {
		t.Parallel()
		ctx := validations.EnterContext(context.Background(), "outer")
		assert.Panics(t, func() {
			_ = validations.InContext(ctx, "inner", func(context.Context) error { panic("boom") })
		})
		name, _ := validations.CurrentContext(ctx)
		assert.Equal(t, "outer", name)
	})

	t.Run("goroutines do not share stacks", func(t *testing.T) {
		t.Parallel()
		base := validations.EnterContext(context.Background(), "shared")
		var wg sync.WaitGroup
		names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
		results := make([]string, len(names))
		for i, name := range names {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = validations.InContext(base, name, func(ctx context.Context) error {
					results[i], _ = validations.CurrentContext(ctx)
					return nil
				})
			}()
		}
		wg.Wait()
		assert.Equal(t, names, results)
		name, _ := validations.CurrentContext(base)
		assert.Equal(t, "shared", name)
	})

	t.Run("log attribute", func(t *testing.T) {
		t.Parallel()
		_, ok := validations.LogAttr(context.Background())
		assert.False(t, ok)
		attr, ok := validations.LogAttr(validations.EnterContext(context.Background(), "create"))
		require.True(t, ok)
		assert.Equal(t, "validation_context", attr.Key)
		assert.Equal(t, "create", attr.Value.String())
	})
}
