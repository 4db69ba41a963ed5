package schemacheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// FetchIndexSchema reads the current mappings of an index from Elasticsearch.
// If the index does not exist, the returned error wraps ErrIndexNotFound.
func FetchIndexSchema(ctx context.Context, client *elasticsearch.Client, name string) (*IndexSchema, error) {
	res, err := client.Indices.GetMapping(
		client.Indices.GetMapping.WithIndex(name),
		client.Indices.GetMapping.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("getting mapping of index %q: %w", name, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("getting mapping of index %q: %w", name, ErrIndexNotFound)
	}
	if err := checkResponse(res); err != nil {
		return nil, fmt.Errorf("getting mapping of index %q: %w", name, err)
	}

	schema, err := decodeMappingResponse(res.Body, name)
	if err != nil {
		return nil, fmt.Errorf("getting mapping of index %q: %w", name, err)
	}
	return schema, nil
}

// decodeMappingResponse decodes the body of the get mapping API, keyed by
// index name. An alias resolves to a single concrete index, whose key
// differs from the requested name.
func decodeMappingResponse(r io.Reader, name string) (*IndexSchema, error) {
	var body map[string]IndexSchema
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding mapping response: %w", err)
	}

	schema, ok := body[name]
	if !ok {
		if len(body) != 1 {
			return nil, fmt.Errorf("mapping response holds %d indices, none named %q", len(body), name)
		}
		for _, s := range body {
			schema = s
		}
	}
	schema.Name = name
	if schema.Mappings == nil {
		schema.Mappings = map[string]*TypeMapping{}
	}
	return &schema, nil
}

// checkResponse checks an Elasticsearch API response for errors.
func checkResponse(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch error [%s]: %s", res.Status(), string(body))
}
