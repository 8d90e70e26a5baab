package gormhook

import "errors"

var (
	// ErrNoModel is returned when a uniqueness query carries no target.
	ErrNoModel = errors.New("gormhook: uniqueness query has no target model")

	ErrUnknownDriver = errors.New("gormhook: unknown database driver")
	ErrEmptyDSN      = errors.New("gormhook: empty DSN")
)
