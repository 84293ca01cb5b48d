package transform

import "strings"

// Serialize renders the path form of a CDN URL. All tokens go into one
// flat `tr:` segment so the CDN runs a single processing stage.
func Serialize(endpoint, basePath string, tokens []Token) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	basePath = strings.Trim(strings.TrimSpace(basePath), "/")

	parts := make([]string, 0, 3)
	if endpoint != "" {
		parts = append(parts, endpoint)
	}
	if len(tokens) > 0 {
		parts = append(parts, stepSegmentPrefix+JoinTokens(tokens))
	}
	if basePath != "" {
		parts = append(parts, basePath)
	}

	out := strings.Join(parts, "/")
	if endpoint == "" {
		out = "/" + out
	}
	return out
}

// withQuery appends a raw query string to a serialized URL.
func withQuery(u, rawQuery string) string {
	if rawQuery == "" {
		return u
	}
	return u + "?" + rawQuery
}
