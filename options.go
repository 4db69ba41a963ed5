package schemacheck

import (
	"context"
	"errors"
	"log/slog"
)

// Option configures the Checker.
type Option func(*Checker) error

// Directory sets the path to the schema directory.
// This option is required.
func Directory(dir string) Option {
	return func(c *Checker) error {
		c.dir = dir
		return nil
	}
}

// WithContext sets the default context for Elasticsearch operations.
// If not set, context.Background() is used.
func WithContext(ctx context.Context) Option {
	return func(c *Checker) error {
		c.ctx = ctx
		return nil
	}
}

// WithLogger sets the logger of the Checker. Unless WithValidator is used,
// the validator logs through it too.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) error {
		if l == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = l
		return nil
	}
}

// WithValidator sets the Validator used to compare schemas.
func WithValidator(v *Validator) Option {
	return func(c *Checker) error {
		if v == nil {
			return errors.New("validator must not be nil")
		}
		c.validator = v
		return nil
	}
}
