package schemacheck

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	usersMapping = `{"users": {"mappings": {
		"dynamic": "strict",
		"properties": {
			"name": {"type": "keyword"},
			"email": {"type": "keyword", "ignore_above": 256},
			"age": {"type": "integer", "null_value": -1},
			"signed_up": {"type": "date"},
			"nickname": {"type": "keyword"}
		}
	}}}`
	productsMapping = `{"products": {"mappings": {
		"properties": {
			"title": {"type": "text", "analyzer": "english", "fields": {"raw": {"type": "keyword"}}},
			"category": {"type": "keyword"},
			"price": {"type": "double", "null_value": 0.0005},
			"released": {"type": "date", "format": "yyyy-MM-dd||epoch_millis"}
		}
	}}}`
)

func TestNew_NilClient(t *testing.T) {
	t.Parallel()

	_, err := New(nil, Directory("testdata/schemas"))
	assert.Error(t, err)
}

func TestNew_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := New(fakeCluster(t, nil))
	assert.Error(t, err)
}

func TestNew_NonExistentDirectory(t *testing.T) {
	t.Parallel()

	_, err := New(fakeCluster(t, nil), Directory("/nonexistent/path"))
	assert.Error(t, err)
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Parallel()

	client := fakeCluster(t, nil)

	_, err := New(client, Directory("testdata/schemas"), WithLogger(nil))
	assert.Error(t, err)

	_, err = New(client, Directory("testdata/schemas"), WithValidator(nil))
	assert.Error(t, err)
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	client := fakeCluster(t, map[string]string{
		"users":    usersMapping,
		"products": productsMapping,
	})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	checker, err := New(client,
		Directory("testdata/schemas"),
		WithContext(context.Background()),
		WithLogger(logger),
	)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"users", "products"}, checker.Indices())

	require.NoError(t, checker.Check())
	assert.Contains(t, logs.String(), "index schema is valid")
}

func TestChecker_CheckReportsEveryIndex(t *testing.T) {
	t.Parallel()

	client := fakeCluster(t, map[string]string{
		// signed_up has a custom output format; products is missing entirely.
		"users": `{"users": {"mappings": {
			"dynamic": "strict",
			"properties": {
				"name": {"type": "keyword"},
				"email": {"type": "keyword"},
				"age": {"type": "integer", "null_value": -1},
				"signed_up": {"type": "date", "format": "epoch_millis||strict_date_optional_time"}
			}
		}}}`,
	})

	checker, err := New(client, Directory("testdata/schemas"))
	require.NoError(t, err)

	err = checker.Check()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexNotFound))
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "users", verr.Index)
	require.Len(t, verr.Groups, 1)
	assert.Equal(t, "signed_up", verr.Groups[0].Location.Path)
	assert.Equal(t, []FindingKind{InvalidOutputFormat}, verr.Groups[0].Kinds)
}

func TestChecker_CheckIndex(t *testing.T) {
	t.Parallel()

	client := fakeCluster(t, map[string]string{
		"users": usersMapping,
	})

	checker, err := New(client, Directory("testdata/schemas"), WithValidator(NewValidator()))
	require.NoError(t, err)

	assert.NoError(t, checker.CheckIndex("users"))
	assert.ErrorIs(t, checker.CheckIndex("products"), ErrIndexNotFound)
	assert.Error(t, checker.CheckIndex("unknown"))
}
