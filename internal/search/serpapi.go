// Package search discovers candidate product URLs through SerpAPI,
// restricted to a trusted domain allowlist and filtered down to individual
// product pages.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const serpEndpoint = "https://serpapi.com/search"

type Client struct {
	apiKey string
	http   *http.Client
	cache  *Cache
}

func NewClient(apiKey string, cache *Cache) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 20 * time.Second},
		cache:  cache,
	}
}

type serpResponse struct {
	OrganicResults []struct {
		Link string `json:"link"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// SearchProducts returns up to n candidate product URLs for the query,
// restricted to the trusted domains, deduplicated by normalized URL and in
// the engine's ranking order.
func (c *Client) SearchProducts(ctx context.Context, query string, domains []string, n int) ([]string, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi: missing api key")
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("serpapi: empty trusted domain list")
	}
	if n <= 0 {
		n = 5
	}

	key := cacheKey(query, domains, n)
	if urls, ok := c.cache.Get(ctx, key); ok {
		log.Printf("[search] cache hit for %q (%d urls)", query, len(urls))
		return urls, nil
	}

	siteParts := make([]string, len(domains))
	for i, d := range domains {
		siteParts[i] = "site:" + d
	}
	q := query + " " + strings.Join(siteParts, " OR ")

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", q)
	// Over-fetch: listing pages get filtered out below.
	params.Set("num", strconv.Itoa(n*2))
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: status %d", resp.StatusCode)
	}
	var body serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("serpapi: decode: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", body.Error)
	}

	urls := FilterCandidates(collectLinks(body), domains, n)
	c.cache.Set(ctx, key, urls)
	return urls, nil
}

func collectLinks(body serpResponse) []string {
	var out []string
	for _, r := range body.OrganicResults {
		if r.Link != "" {
			out = append(out, r.Link)
		}
	}
	return out
}

// FilterCandidates keeps single-product pages on trusted domains, dedupes by
// normalized URL preserving order, and caps the list at n.
func FilterCandidates(links []string, domains []string, n int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, link := range links {
		if !hostAllowed(link, domains) || !IsProductPage(link) {
			continue
		}
		norm := normalizeURL(link)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, link)
		if len(out) >= n {
			break
		}
	}
	return out
}
