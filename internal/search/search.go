package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"storefront-be/internal/models"
)

// Search runs a fuzzy multi_match over product name and description.
// Name matches are weighted double.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}
