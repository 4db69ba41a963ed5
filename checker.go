package schemacheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
)

// Checker validates the indices of an Elasticsearch cluster against the
// expected schemas found in a directory. Each subdirectory is named after
// an index and holds its mapping file.
type Checker struct {
	client    *elasticsearch.Client
	dir       string
	ctx       context.Context
	logger    *slog.Logger
	validator *Validator
	fixtures  []*schemaFixture
}

// New creates a new Checker with the given Elasticsearch client and options.
// The Directory option is required.
//
// Schema files are parsed during construction, so any file format errors
// are reported immediately.
func New(client *elasticsearch.Client, opts ...Option) (*Checker, error) {
	if client == nil {
		return nil, errors.New("schemacheck: client must not be nil")
	}

	c := &Checker{
		client: client,
		ctx:    context.Background(),
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("schemacheck: applying option: %w", err)
		}
	}

	if c.dir == "" {
		return nil, errors.New("schemacheck: Directory option is required")
	}
	if c.validator == nil {
		c.validator = NewValidator(WithValidatorLogger(c.logger))
	}

	fixtures, err := parseSchemas(c.dir)
	if err != nil {
		return nil, fmt.Errorf("schemacheck: %w", err)
	}
	c.fixtures = fixtures

	return c, nil
}

// Indices returns the names of the indices managed by this Checker.
func (c *Checker) Indices() []string {
	names := make([]string, 0, len(c.fixtures))
	for _, f := range c.fixtures {
		names = append(names, f.name)
	}
	return names
}

// Check validates every managed index. Failures of individual indices do
// not stop the others; they are joined into the returned error.
func (c *Checker) Check() error {
	var errs []error
	for _, f := range c.fixtures {
		if err := c.check(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CheckIndex validates a single managed index.
func (c *Checker) CheckIndex(name string) error {
	for _, f := range c.fixtures {
		if f.name == name {
			return c.check(f)
		}
	}
	return fmt.Errorf("schemacheck: no schema for index %q in %q", name, c.dir)
}

func (c *Checker) check(f *schemaFixture) error {
	c.logger.Debug("checking index", "index", f.name, "schema", f.path)

	actual, err := FetchIndexSchema(c.ctx, c.client, f.name)
	if err != nil {
		return fmt.Errorf("schemacheck: %w", err)
	}

	if err := c.validator.Validate(f.schema, actual); err != nil {
		return err
	}

	c.logger.Info("index schema is valid", "index", f.name)
	return nil
}
