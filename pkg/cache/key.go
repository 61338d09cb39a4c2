package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey identifies one cached page request.
type CacheKey struct {
	// Host is the API host (e.g., "site.web.api.espn.com")
	Host string

	// Path is the request path
	Path string

	// QueryParams are the query parameters (e.g., {"limit": "50", "page": "2"})
	QueryParams url.Values
}

// KeyForURL builds the cache key of a request URL.
func KeyForURL(rawURL string) (CacheKey, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return CacheKey{}, fmt.Errorf("parse url: %w", err)
	}
	return CacheKey{
		Host:        strings.ToLower(u.Host),
		Path:        u.Path,
		QueryParams: u.Query(),
	}, nil
}

// String generates a deterministic cache key string.
// Format: espn:host/path:query1=val1:query2=val2
//
// Example:
//
//	espn:site.web.api.espn.com/apis/common/v3/sports/basketball/mens-college-basketball/statistics/byathlete:limit=50:page=2
func (k CacheKey) String() string {
	parts := []string{"espn"}

	target := strings.Trim(k.Host+"/"+strings.Trim(k.Path, "/"), "/")
	if target != "" {
		parts = append(parts, target)
	}

	// Sorted for determinism; repeated values keep their order.
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			for _, value := range k.QueryParams[key] {
				parts = append(parts, fmt.Sprintf("%s=%s", key, value))
			}
		}
	}

	return strings.Join(parts, ":")
}
