package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// keyPrefix namespaces every key this package writes.
const keyPrefix = "clickup"

// CacheKey represents a unique identifier for a cached ClickUp response.
type CacheKey struct {
	// Method is the HTTP method (only GET responses are cached).
	Method string

	// Path is the resolved request path including the API version
	// (e.g., "v2/list/901/task").
	Path string

	// QueryParams are the query parameters (e.g., {"archived": "false"}).
	QueryParams url.Values

	// Credential is a Fingerprint of the Authorization header, so responses
	// are never shared between tokens.
	Credential string
}

// String generates a deterministic cache key string.
// Format: clickup:METHOD:path:query1=a,b:query2=c:cred=fingerprint
//
// Example:
//
//	clickup:GET:v2/list/901/task:archived=false:page=0:cred=9f86d081884c7d65
func (k CacheKey) String() string {
	parts := []string{keyPrefix, strings.ToUpper(k.Method)}

	if path := strings.Trim(k.Path, "/"); path != "" {
		parts = append(parts, path)
	}

	// Sorted for determinism; repeated values keep their order.
	if len(k.QueryParams) > 0 {
		keys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, key+"="+strings.Join(k.QueryParams[key], ","))
		}
	}

	if k.Credential != "" {
		parts = append(parts, "cred="+k.Credential)
	}

	return strings.Join(parts, ":")
}

// Fingerprint returns a short, non-reversible identifier of a credential.
func Fingerprint(credential string) string {
	if credential == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:8])
}
