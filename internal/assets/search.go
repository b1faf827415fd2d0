package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/koassets/rights-backend/internal/config"
	"github.com/koassets/rights-backend/internal/logging"
	"github.com/sony/gobreaker/v2"
)

// ErrSearchUnavailable is returned when the index is down or the
// circuit breaker is open.
var ErrSearchUnavailable = errors.New("asset search temporarily unavailable")

type searchQuery struct {
	Query  string `json:"query"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

// SearchClient queries the third-party asset index. Calls run through a
// circuit breaker so a dead index fails fast instead of holding request
// goroutines for the full timeout.
type SearchClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[*searchResponse]
}

func NewSearchClient(cfg config.SearchConfig) *SearchClient {
	breaker := gobreaker.NewCircuitBreaker[*searchResponse](gobreaker.Settings{
		Name:    "asset-search",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn("search breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &SearchClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout},
		breaker:  breaker,
	}
}

// Search runs a query against the index and returns normalized hits.
func (c *SearchClient) Search(ctx context.Context, query string, limit, offset int64) (*SearchResult, error) {
	resp, err := c.breaker.Execute(func() (*searchResponse, error) {
		return c.doSearch(ctx, searchQuery{Query: query, Limit: limit, Offset: offset})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrSearchUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	result := &SearchResult{
		Assets: make([]Asset, 0, len(resp.Hits)),
		Total:  resp.Total,
	}
	for _, hit := range resp.Hits {
		result.Assets = append(result.Assets, normalizeHit(hit))
	}
	return result, nil
}

func (c *SearchClient) doSearch(ctx context.Context, q searchQuery) (*searchResponse, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encoding search query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling search index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search index returned %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return &decoded, nil
}
