package transform

import (
	"errors"
	"net/url"
	"strings"

	"github.com/wb-go/wbf/zlog"
)

var (
	ErrNoBasePath    = errors.New("url has no asset path")
	ErrUnknownPreset = errors.New("unknown preset")
)

// Options configures an Engine.
type Options struct {
	// Endpoint is the CDN base, e.g. https://cdn.example/acct. It is used
	// for bare-path input and for URLs that do not name their own endpoint.
	Endpoint string
	// AccountID restricts which leading segment of a bare path is
	// stripped as the account. Derived from Endpoint when empty.
	AccountID string
}

// Engine parses, merges and serializes CDN transformation URLs. It holds
// no mutable state.
type Engine struct {
	endpoint  string
	accountID string
	logger    *zlog.Zerolog
	merge     func(existing, incoming []Token) []Token
}

func NewEngine(opts Options, logger *zlog.Zerolog) *Engine {
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	accountID := opts.AccountID
	if accountID == "" && endpoint != "" {
		if u, err := url.Parse(endpoint); err == nil {
			if segs := splitSegments(u.Path); len(segs) > 0 {
				accountID = segs[len(segs)-1]
			}
		}
	}
	if logger == nil {
		logger = &zlog.Logger
	}

	return &Engine{
		endpoint:  endpoint,
		accountID: accountID,
		logger:    logger,
		merge:     mergeTokens,
	}
}

// ParsePath splits a CDN URL. Malformed input yields an empty Resource.
func (e *Engine) ParsePath(raw string) Resource {
	res, err := parsePath(raw, e.accountID)
	if err != nil {
		e.logger.Warn().Err(err).Str("url", raw).Msg("Failed to parse transformation url")
		return Resource{}
	}
	return res
}

// Merge combines existing and incoming tokens. If merging fails the newest
// request wins and incoming is returned alone.
func (e *Engine) Merge(existing, incoming []Token) (merged []Token) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Interface("panic", r).
				Int("existing", len(existing)).
				Int("incoming", len(incoming)).
				Msg("Token merge failed, keeping requested tokens only")
			merged = append([]Token(nil), incoming...)
		}
	}()
	return e.merge(existing, incoming)
}

// Apply builds a step from preset options and merges it into raw.
// On error the returned URL is raw itself.
func (e *Engine) Apply(raw string, preset Preset, params map[string]interface{}) (string, error) {
	if !preset.Valid() {
		return raw, ErrUnknownPreset
	}
	return e.ApplyStep(raw, BuildStep(preset, params))
}

// ApplyStep merges a raw step string into raw.
func (e *Engine) ApplyStep(raw, step string) (string, error) {
	res := e.ParsePath(raw)
	if res.BasePath == "" {
		return raw, ErrNoBasePath
	}

	merged := e.Merge(Tokenize(res.Steps), ParseStep(step))
	out := withQuery(Serialize(e.endpointFor(res), res.BasePath, merged), res.Query)

	e.logger.Debug().
		Str("base_path", res.BasePath).
		Str("step", step).
		Int("tokens", len(merged)).
		Msg("Transformation applied")

	return out, nil
}

// Strip removes every transformation from raw.
func (e *Engine) Strip(raw string) (string, error) {
	res := e.ParsePath(raw)
	if res.BasePath == "" {
		return raw, ErrNoBasePath
	}
	return withQuery(Serialize(e.endpointFor(res), res.BasePath, nil), res.Query), nil
}

// Normalize re-serializes raw with its own tokens merged, which collapses
// duplicates and chained steps into canonical form.
func (e *Engine) Normalize(raw string) (string, error) {
	return e.ApplyStep(raw, "")
}

// TokenInfo describes one token of an inspected URL.
type TokenInfo struct {
	Raw        string `json:"raw"`
	Group      string `json:"group"`
	Cumulative bool   `json:"cumulative"`
	Utility    bool   `json:"utility"`
}

// Inspection is the parsed view of a URL.
type Inspection struct {
	Endpoint string      `json:"endpoint"`
	BasePath string      `json:"base_path"`
	Steps    []string    `json:"steps"`
	Tokens   []TokenInfo `json:"tokens"`
	Query    string      `json:"query,omitempty"`
}

func (e *Engine) Inspect(raw string) Inspection {
	res := e.ParsePath(raw)
	tokens := Tokenize(res.Steps)

	info := make([]TokenInfo, len(tokens))
	for i, t := range tokens {
		c := Classify(t)
		info[i] = TokenInfo{
			Raw:        string(t),
			Group:      c.Group.String(),
			Cumulative: c.Cumulative,
			Utility:    c.Utility,
		}
	}

	return Inspection{
		Endpoint: e.endpointFor(res),
		BasePath: res.BasePath,
		Steps:    res.Steps,
		Tokens:   info,
		Query:    res.Query,
	}
}

func (e *Engine) endpointFor(res Resource) string {
	switch {
	case res.Endpoint != "":
		return res.Endpoint
	case e.endpoint != "":
		return e.endpoint
	case res.AccountID != "":
		return "/" + res.AccountID
	}
	return ""
}
