package search

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 1 * time.Hour

// Cache remembers recent search results so repeated queries don't burn
// SerpAPI quota. A nil Cache is a no-op.
type Cache struct {
	Client *redis.Client
}

func cacheKey(query string, domains []string, n int) string {
	var sb strings.Builder
	sb.WriteString("serp:q:")
	sb.WriteString(query)
	sb.WriteString("|sites:")
	sb.WriteString(strings.Join(domains, ","))
	sb.WriteString("|n:")
	sb.WriteString(strconv.Itoa(n))
	return sb.String()
}

func (c *Cache) Get(ctx context.Context, key string) ([]string, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}
	val, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var urls []string
	if err := json.Unmarshal([]byte(val), &urls); err != nil {
		return nil, false
	}
	return urls, true
}

func (c *Cache) Set(ctx context.Context, key string, urls []string) {
	if c == nil || c.Client == nil {
		return
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return
	}
	c.Client.Set(ctx, key, b, cacheTTL)
}
