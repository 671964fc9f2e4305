package ratelimit

import "strings"

// exempt lists the GET routes that are never limited.
var exempt = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// unlimited is returned for exempt routes; a zero Limit disables the bucket.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the tier for method and path, or nil when the default
// limit applies. An exact path wins over a prefix tier (a Path ending in "/"),
// and among prefixes the longest wins.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && exempt[path] {
		tier := unlimited
		tier.Path, tier.Method = path, method
		return &tier
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}
