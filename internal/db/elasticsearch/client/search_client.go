package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apistats/statfetch/internal/db/elasticsearch/model"
	"github.com/elastic/go-elasticsearch/v8"
)

type SearchClient interface {
	// SearchAggregations executes an aggregation-only search and returns the
	// aggregations of the response keyed by their name. An empty indices slice
	// searches across all indices of the backend.
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-search.html
	SearchAggregations(
		ctx context.Context,
		query string,
		indices []string,
	) (map[string]model.DateHistogram, error)
}

type SearchClientImpl struct {
	es *elasticsearch.Client
}

func NewSearchClientImpl(es *elasticsearch.Client) *SearchClientImpl {
	return &SearchClientImpl{es: es}
}

func (s *SearchClientImpl) SearchAggregations(
	ctx context.Context,
	query string,
	indices []string,
) (map[string]model.DateHistogram, error) {
	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(indices...),
		s.es.Search.WithBody(strings.NewReader(query)),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to execute query: %s", res.String())
	}

	var esResponse model.EsAggregationResponse
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return esResponse.Aggregations, nil
}
