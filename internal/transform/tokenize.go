package transform

import "strings"

const (
	chainSeparator = ":"
	tokenSeparator = ","
)

// Tokenize flattens steps into tokens. Each step may itself hold a
// colon-separated chain; tokens keep step order, then chain order, then
// their order within the chain link.
func Tokenize(steps []string) []Token {
	var tokens []Token
	for _, step := range steps {
		for _, link := range strings.Split(step, chainSeparator) {
			for _, part := range strings.Split(link, tokenSeparator) {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				tokens = append(tokens, Token(part))
			}
		}
	}
	return tokens
}

// ParseStep tokenizes a single raw step string.
func ParseStep(step string) []Token {
	return Tokenize([]string{step})
}
