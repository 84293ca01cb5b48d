package transform

// mergeTokens reconciles existing and incoming tokens. Later tokens win
// their group, rotation accumulates, and unclassified tokens pass through
// once each in first-seen order. The result is in canonical order.
func mergeTokens(existing, incoming []Token) []Token {
	all := make([]Token, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)

	var (
		latest      [groupCount]Token
		present     [groupCount]bool
		passthrough []Token
		seen        = make(map[Token]struct{})
	)

	for _, tok := range all {
		class := Classify(tok)
		g := class.Group

		switch {
		case g == GroupNone:
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			passthrough = append(passthrough, tok)
		case class.Cumulative && present[g]:
			latest[g] = accumulate(latest[g], tok)
		default:
			latest[g] = tok
			present[g] = true
		}
	}

	out := make([]Token, 0, len(all))
	for g := GroupNone + 1; g < groupCount; g++ {
		if g == GroupProgressive {
			out = append(out, passthrough...)
		}
		if present[g] {
			out = append(out, latest[g])
		}
	}
	return out
}

// accumulate combines two tokens of a cumulative group. Values that are not
// integers cannot be summed, so the newer token replaces the older one.
func accumulate(prev, next Token) Token {
	r, _ := matchRule(next)
	a, okA := parseInt(prev.Value())
	b, okB := parseInt(next.Value())
	if !okA || !okB {
		return next
	}
	return Token(r.prefix + formatInt(normalizeDegrees(normalizeDegrees(a)+normalizeDegrees(b))))
}

func normalizeDegrees(n int) int {
	n %= 360
	if n < 0 {
		n += 360
	}
	return n
}
