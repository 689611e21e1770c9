package conv

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{name: "fits", text: "hello", maxLen: 10, want: []string{"hello"}},
		{name: "exact", text: "hello", maxLen: 5, want: []string{"hello"}},
		{name: "no limit", text: "hello", maxLen: 0, want: []string{"hello"}},
		{name: "prefers newline", text: "first line\nsecond", maxLen: 12, want: []string{"first line", "second"}},
		{name: "falls back to space", text: "aaaa bbbb cccc", maxLen: 10, want: []string{"aaaa bbbb", "cccc"}},
		{name: "hard cut", text: "abcdefghij", maxLen: 4, want: []string{"abcd", "efgh", "ij"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.text, tt.maxLen))
		})
	}
}

func TestSplit_KeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("é", 10)

	chunks := Split(text, 5)

	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 5)
		assert.True(t, utf8.ValidString(c))
	}
}
