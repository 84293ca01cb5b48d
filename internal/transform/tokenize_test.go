package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		steps []string
		want  []Token
	}{
		{
			name:  "flat step",
			steps: []string{"q-80,w-400"},
			want:  []Token{"q-80", "w-400"},
		},
		{
			name:  "chained step keeps link order",
			steps: []string{"w-400:rt-90", "q-80"},
			want:  []Token{"w-400", "rt-90", "q-80"},
		},
		{
			name:  "whitespace and empty tokens",
			steps: []string{" q-80 , ,f-webp ", "", ":,:"},
			want:  []Token{"q-80", "f-webp"},
		},
		{
			name:  "duplicates are kept for the merge to resolve",
			steps: []string{"q-80", "q-90,q-80"},
			want:  []Token{"q-80", "q-90", "q-80"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.steps))
		})
	}

	assert.Empty(t, Tokenize(nil))
	assert.Equal(t, []Token{"e-bgremove", "pr-true"}, ParseStep("e-bgremove,pr-true"))
}
