package validations

import (
	"errors"
	"fmt"
	"os"
)

// Config holds environment driven settings for a Validator.
// Load it with pkg/config:
//
//	var cfg validations.Config
//	if err := config.Load(&cfg); err != nil { ... }
//	v, err := validations.NewValidatorFromConfig(cfg, registry)
type Config struct {
	// MessagesFile is an optional YAML file overriding default messages.
	MessagesFile string `env:"VALIDATIONS_MESSAGES_FILE"`

	// IdentityAttribute holds record identity for uniqueness checks.
	IdentityAttribute string `env:"VALIDATIONS_IDENTITY_ATTRIBUTE" envDefault:"id"`

	// StrictRegistration rejects types without registered rules.
	StrictRegistration bool `env:"VALIDATIONS_STRICT_REGISTRATION" envDefault:"false"`
}

// ErrMessagesFile is returned when the configured message file cannot be read.
var ErrMessagesFile = errors.New("validations: failed to load messages file")

// NewValidatorFromConfig builds a Validator from cfg. Options are applied after
// the configured settings and may override them.
func NewValidatorFromConfig(cfg Config, registry *Registry, opts ...ValidatorOption) (*Validator, error) {
	base := []ValidatorOption{
		WithIdentityAttribute(cfg.IdentityAttribute),
		WithStrictRegistration(cfg.StrictRegistration),
	}
	if cfg.MessagesFile != "" {
		f, err := os.Open(cfg.MessagesFile)
		if err != nil {
			return nil, errors.Join(ErrMessagesFile, err)
		}
		defer f.Close()
		messages, err := LoadMessages(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMessagesFile, cfg.MessagesFile, err)
		}
		base = append(base, WithMessages(messages))
	}
	return NewValidator(registry, append(base, opts...)...), nil
}
