package validations_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validations/pkg/validations"
)

func TestRuleSet(t *testing.T) {
	t.Parallel()

	t.Run("evaluates every rule in declaration order", func(t *testing.T) {
		t.Parallel()
		rules := validations.NewContextualRuleSet("phones").Add(
			validations.Presence("name"),
			validations.LengthMin("number", 3),
			validations.Presence("phone_type"),
			validations.Format("name", regexp.MustCompile(`^[A-Z]`)),
		)
		rs, ok := rules.Context(validations.DefaultContext)
		require.True(t, ok)
		assert.Equal(t, 4, rs.Len())
		assert.Equal(t, []string{"name", "number", "phone_type"}, rs.Attributes())
		assert.Len(t, rs.RulesFor("name"), 2)

		errs := validations.NewErrorSet()
		valid, err := rs.Validate(context.Background(), &phone{Number: "1"}, validations.Env{}, errs)
		require.NoError(t, err)
		assert.False(t, valid)
		assert.Equal(t, []string{"name", "number", "phone_type"}, errs.Attributes())
		assert.Equal(t, 4, errs.Len())
		assert.Len(t, errs.On("name"), 2)
	})

	t.Run("exceptional errors abort with context", func(t *testing.T) {
		t.Parallel()
		rules := validations.NewContextualRuleSet("accounts").Add(validations.Method("age", "Missing"))
		errs := validations.NewErrorSet()
		_, err := rules.Validate(context.Background(), &account{}, "", validations.Env{}, errs)
		require.Error(t, err)
		assert.ErrorIs(t, err, validations.ErrMethodNotFound)
		assert.Contains(t, err.Error(), `method rule on "age"`)
	})
}

func TestContextualRuleSet(t *testing.T) {
	t.Parallel()

	newRules := func() *validations.ContextualRuleSet {
		return validations.NewContextualRuleSet("phones").Add(
			validations.Presence("name"),
			validations.Presence("number", validations.On("publish")),
			validations.LengthMax("name", 5, validations.On("publish", validations.DefaultContext)),
		)
	}

	t.Run("rules without On land in the default context", func(t *testing.T) {
		t.Parallel()
		rules := newRules()
		assert.Equal(t, []string{validations.DefaultContext, "publish"}, rules.Contexts())
		def, ok := rules.Context("")
		require.True(t, ok)
		assert.Equal(t, validations.DefaultContext, def.Name())
		assert.Equal(t, 2, def.Len())
		pub, ok := rules.Context("publish")
		require.True(t, ok)
		assert.Equal(t, 2, pub.Len())
	})

	t.Run("only the named context runs", func(t *testing.T) {
		t.Parallel()
		rules := newRules()
		errs := validations.NewErrorSet()
		valid, err := rules.Validate(context.Background(), &phone{Name: "Alice"}, validations.DefaultContext, validations.Env{}, errs)
		require.NoError(t, err)
		assert.True(t, valid)

		valid, err = rules.Validate(context.Background(), &phone{Name: "Alice"}, "publish", validations.Env{}, errs)
		require.NoError(t, err)
		assert.False(t, valid)
		assert.Equal(t, []string{"number"}, errs.Attributes())
	})

	t.Run("unknown context is a configuration error", func(t *testing.T) {
		t.Parallel()
		rules := newRules()
		assert.False(t, rules.ValidContext("archive"))
		err := rules.AssertValidContext("archive")
		require.Error(t, err)
		assert.True(t, validations.IsConfigurationError(err))
		assert.ErrorIs(t, err, validations.ErrUnknownContext)

		var cfgErr *validations.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "phones", cfgErr.Model)
		assert.Equal(t, "archive", cfgErr.Context)
		assert.Equal(t, []string{validations.DefaultContext, "publish"}, cfgErr.Known)

		errs := validations.NewErrorSet()
		_, err = rules.Validate(context.Background(), &phone{}, "archive", validations.Env{}, errs)
		assert.ErrorIs(t, err, validations.ErrUnknownContext)
		assert.True(t, errs.Empty(), "no rule may run")
	})

	t.Run("any context is valid without rules", func(t *testing.T) {
		t.Parallel()
		rules := validations.NewContextualRuleSet("notes")
		assert.True(t, rules.Empty())
		assert.True(t, rules.ValidContext("anything"))
		valid, err := rules.Validate(context.Background(), &phone{}, "anything", validations.Env{}, validations.NewErrorSet())
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("custom default context", func(t *testing.T) {
		t.Parallel()
		rules := validations.NewContextualRuleSet("phones", validations.WithDefaultContext("save"), validations.WithModelName("contacts")).
			Add(validations.Presence("name"))
		assert.Equal(t, "save", rules.DefaultContext())
		assert.Equal(t, "contacts", rules.Model())
		assert.Equal(t, []string{"save"}, rules.Contexts())
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()
		rules := newRules()
		rules.Clear()
		assert.True(t, rules.Empty())
		assert.Empty(t, rules.Contexts())
	})

	t.Run("rule set for creates the context", func(t *testing.T) {
		t.Parallel()
		rules := validations.NewContextualRuleSet("phones")
		rules.RuleSetFor("import").Add(validations.Presence("number"))
		assert.True(t, rules.ValidContext("import"))
		assert.False(t, rules.ValidContext(validations.DefaultContext))
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := validations.NewRegistry()
	rules := validations.Define[phone](reg)
	assert.Same(t, rules, validations.Define[phone](reg))
	assert.Equal(t, "phones", rules.Model())

	got, ok := reg.For(&phone{})
	require.True(t, ok)
	assert.Same(t, rules, got)
	got, ok = reg.For(phone{})
	require.True(t, ok)
	assert.Same(t, rules, got)

	_, err := reg.Lookup(&account{})
	assert.ErrorIs(t, err, validations.ErrNotRegistered)

	custom := validations.NewContextualRuleSet("users")
	reg.Register(account{}, custom)
	got, err = reg.Lookup(&account{})
	require.NoError(t, err)
	assert.Same(t, custom, got)

	type category struct{}
	assert.Equal(t, "categories", validations.Define[category](reg).Model())

	assert.Panics(t, func() { reg.Register(nil, custom) })
}
