package schemacheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCluster serves the get mapping API from canned response bodies,
// keyed by the requested index name.
func fakeCluster(t *testing.T, responses map[string]string) *elasticsearch.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		index, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/_mapping")
		if r.Method != http.MethodGet || !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "unexpected request"}`))
			return
		}

		body, ok := responses[index]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"type": "index_not_found_exception"}, "status": 404}`))
			return
		}
		if strings.HasPrefix(body, "!") {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(body[1:]))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{srv.URL},
	})
	require.NoError(t, err)
	return client
}

func TestFetchIndexSchema(t *testing.T) {
	t.Parallel()

	client := fakeCluster(t, map[string]string{
		"library": `{"library": {"mappings": {"book": {"properties": {"title": {"type": "string"}}}}}}`,
		"users":   `{"users": {"mappings": {"dynamic": "strict", "properties": {"age": {"type": "integer"}}}}}`,
		"books":   `{"library-v2": {"mappings": {"properties": {"isbn": {"type": "keyword"}}}}}`,
		"empty":   `{"empty": {"mappings": {}}}`,
		"broken":  `!{"error": "boom"}`,
		"garbage": `not json`,
		"logs": `{"logs": {"mappings": {"properties": {
			"message": {"type": "text", "index": true},
			"trace":   {"type": "keyword", "index": false},
			"loc":     {"type": "geo_point", "null_value": [0, 0]},
			"origin":  {"type": "geo_point", "null_value": {"lat": 1.5, "lon": 2}},
			"stamp":   {"type": "date", "format": ""}
		}}}}`,
	})
	ctx := context.Background()

	t.Run("per type", func(t *testing.T) {
		t.Parallel()

		schema, err := FetchIndexSchema(ctx, client, "library")
		require.NoError(t, err)
		assert.Equal(t, "library", schema.Name)
		assert.Equal(t, DataTypeString, schema.Mappings["book"].Properties["title"].Type)
	})

	t.Run("typeless", func(t *testing.T) {
		t.Parallel()

		schema, err := FetchIndexSchema(ctx, client, "users")
		require.NoError(t, err)
		m := schema.Mappings[typelessMappingName]
		require.NotNil(t, m)
		assert.Equal(t, DynamicStrict, m.Dynamic)
		assert.Equal(t, DataTypeInteger, m.Properties["age"].Type)
	})

	t.Run("alias", func(t *testing.T) {
		t.Parallel()

		schema, err := FetchIndexSchema(ctx, client, "books")
		require.NoError(t, err)
		assert.Equal(t, "books", schema.Name)
		assert.Contains(t, schema.Mappings[typelessMappingName].Properties, "isbn")
	})

	t.Run("empty mappings", func(t *testing.T) {
		t.Parallel()

		schema, err := FetchIndexSchema(ctx, client, "empty")
		require.NoError(t, err)
		assert.NotNil(t, schema.Mappings)
		assert.Empty(t, schema.Mappings)
	})

	t.Run("values in Elasticsearch 8 form", func(t *testing.T) {
		t.Parallel()

		schema, err := FetchIndexSchema(ctx, client, "logs")
		require.NoError(t, err)
		props := schema.Mappings[typelessMappingName].Properties
		assert.Equal(t, IndexType(""), props["message"].Index)
		assert.Equal(t, IndexNo, props["trace"].Index)
		require.NotNil(t, props["loc"].NullValue)
		assert.Equal(t, `[0,0]`, props["loc"].NullValue.String())
		require.NotNil(t, props["origin"].NullValue)
		assert.Equal(t, `{"lat":1.5,"lon":2}`, props["origin"].NullValue.String())
		assert.Nil(t, props["stamp"].Format)

		expected := &IndexSchema{
			Name: "logs",
			Mappings: map[string]*TypeMapping{
				typelessMappingName: {Properties: map[string]*PropertyMapping{
					"trace": {Type: DataType("keyword"), Index: IndexNo},
					"loc":   {Type: DataTypeGeoPoint, NullValue: primitiveOf(`[0, 0]`)},
					"stamp": {Type: DataTypeDate},
				}},
			},
		}
		assert.NoError(t, NewValidator().Validate(expected, schema))
	})

	t.Run("missing index", func(t *testing.T) {
		t.Parallel()

		_, err := FetchIndexSchema(ctx, client, "nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIndexNotFound))
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		_, err := FetchIndexSchema(ctx, client, "broken")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrIndexNotFound))
		assert.Contains(t, err.Error(), "500")
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("undecodable body", func(t *testing.T) {
		t.Parallel()

		_, err := FetchIndexSchema(ctx, client, "garbage")
		assert.Error(t, err)
	})
}

func TestDecodeMappingResponse_Ambiguous(t *testing.T) {
	t.Parallel()

	_, err := decodeMappingResponse(strings.NewReader(`{"a": {"mappings": {}}, "b": {"mappings": {}}}`), "c")
	assert.Error(t, err)
}
