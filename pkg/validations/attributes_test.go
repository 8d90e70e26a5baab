package validations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validations/pkg/validations"
)

type mapModel map[string]any

func (m mapModel) Attribute(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

func TestReadAttribute(t *testing.T) {
	t.Parallel()

	a := &account{Email: "a@example.com", PasswordConfirmation: "x"}
	for _, name := range []string{"Email", "email", "email_address"} {
		v, ok := validations.ReadAttribute(a, name)
		require.True(t, ok, name)
		assert.Equal(t, "a@example.com", v)
	}

	v, ok := validations.ReadAttribute(&phone{PhoneType: "home"}, "phone_type")
	require.True(t, ok)
	assert.Equal(t, "home", v)

	v, ok = validations.ReadAttribute(a, "password_confirmation")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = validations.ReadAttribute(a, "missing")
	assert.False(t, ok)
	_, ok = validations.ReadAttribute((*account)(nil), "email")
	assert.False(t, ok)
	_, ok = validations.ReadAttribute(42, "email")
	assert.False(t, ok)

	v, ok = validations.ReadAttribute(mapModel{"title": "hello"}, "title")
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestAssignAttributes(t *testing.T) {
	t.Parallel()

	type profile struct {
		Name  string
		Age   int64
		Bio   *string
		Admin bool
	}

	p := &profile{}
	err := validations.AssignAttributes(p, map[string]any{
		"name":  "Alice",
		"age":   30,
		"bio":   "hi",
		"Admin": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, int64(30), p.Age)
	require.NotNil(t, p.Bio)
	assert.Equal(t, "hi", *p.Bio)
	assert.True(t, p.Admin)

	require.NoError(t, validations.AssignAttributes(p, map[string]any{"bio": nil}))
	assert.Nil(t, p.Bio)

	err = validations.AssignAttributes(p, map[string]any{"age": "thirty"})
	assert.ErrorIs(t, err, validations.ErrUnknownAttribute)
	err = validations.AssignAttributes(profile{}, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, validations.ErrUnknownAttribute, "values are not settable")
	assert.NoError(t, validations.AssignAttributes(p, nil))
}
