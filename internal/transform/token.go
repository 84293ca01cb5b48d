// Package transform composes CDN transformation strings.
//
// A CDN URL carries zero or more `tr:` path segments; each segment holds
// colon-chained steps of comma-separated tokens such as `w-400` or
// `e-brightness-10`. The package parses such URLs, merges a new step into the
// existing tokens so that every conflict group keeps a single value, and
// serializes the result back into a single flat `tr:` segment.
//
// Every function in this package is pure and safe for concurrent use.
package transform

import (
	"strconv"
	"strings"
)

// Token is a single `prefix-value` directive, e.g. `q-90`.
type Token string

func (t Token) String() string {
	return string(t)
}

// Class returns the conflict group the token belongs to.
func (t Token) Class() Class {
	return Classify(t)
}

// Value returns the part of the token that follows its group prefix.
// Tokens without a group, and exact-match effects, return "".
func (t Token) Value() string {
	r, ok := matchRule(t)
	if !ok || r.exact {
		return ""
	}
	return strings.TrimPrefix(string(t), r.prefix)
}

// JoinTokens renders tokens as one flat step.
func JoinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	return strings.Join(parts, tokenSeparator)
}

// parseInt reads a CDN integer. Negative values use the `N` prefix
// (`rt-N90`); a plain minus sign is accepted as well.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	switch s[0] {
	case 'N', '-':
		neg = true
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func formatInt(n int) string {
	if n < 0 {
		return "N" + strconv.Itoa(-n)
	}
	return strconv.Itoa(n)
}
