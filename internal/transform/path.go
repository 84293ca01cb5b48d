package transform

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	stepSegmentPrefix = "tr:"
	stepQueryParam    = "tr"
)

var (
	errEmptyURL   = errors.New("empty url")
	errNotURL     = errors.New("neither an absolute url nor a rooted path")
	errNoSegments = errors.New("url has no path segments")
)

// Resource is a CDN URL split into its parts.
type Resource struct {
	// Endpoint is scheme://host/<account> for absolute input, "" for bare paths.
	Endpoint string
	// AccountID is the stripped leading path segment, if any.
	AccountID string
	// BasePath is the asset path without transformation segments or slashes
	// at either end.
	BasePath string
	// Steps holds the raw `tr:` contents in URL order, query form last.
	Steps []string
	// Query is the raw query string without its `tr` parameters, for
	// example signatures and cache busters that must survive a rewrite.
	Query string
}

// parsePath splits raw into a Resource. The first segment of an absolute URL
// is always the account; for bare paths accountID, when set, is the only
// leading segment stripped as the account.
func parsePath(raw, accountID string) (Resource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Resource{}, errEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Resource{}, fmt.Errorf("failed to parse url: %w", err)
	}

	absolute := u.Host != ""
	if !absolute && !strings.HasPrefix(u.Path, "/") {
		return Resource{}, errNotURL
	}

	segments := splitSegments(u.EscapedPath())
	if len(segments) == 0 {
		return Resource{}, errNoSegments
	}

	var res Resource
	first := segments[0]
	if !strings.HasPrefix(first, stepSegmentPrefix) && (absolute || accountID == "" || first == accountID) {
		res.AccountID = first
		segments = segments[1:]
	}

	var asset []string
	for _, seg := range segments {
		if step, ok := strings.CutPrefix(seg, stepSegmentPrefix); ok {
			if step != "" {
				res.Steps = append(res.Steps, step)
			}
			continue
		}
		asset = append(asset, seg)
	}

	// Some storage layouts repeat the account id inside the asset path.
	if res.AccountID != "" && len(asset) > 1 && asset[0] == res.AccountID {
		asset = asset[1:]
	}

	if step := u.Query().Get(stepQueryParam); step != "" {
		res.Steps = append(res.Steps, step)
	}
	res.Query = dropQueryParam(u.RawQuery, stepQueryParam)

	res.BasePath = strings.Join(asset, "/")
	if absolute {
		res.Endpoint = origin(u)
		if res.AccountID != "" {
			res.Endpoint += "/" + res.AccountID
		}
	}

	return res, nil
}

func splitSegments(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// dropQueryParam removes every name parameter from rawQuery, leaving the
// rest byte for byte in their original order.
func dropQueryParam(rawQuery, name string) string {
	if rawQuery == "" {
		return ""
	}

	var kept []string
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, _, _ := strings.Cut(part, "=")
		if k, err := url.QueryUnescape(key); err == nil && k == name {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "&")
}

func origin(u *url.URL) string {
	if u.Scheme == "" {
		return "//" + u.Host
	}
	return u.Scheme + "://" + u.Host
}
