package llm

import (
	"strings"
	"unicode/utf8"
)

// ansiReset is the colour reset llama-run prints after the generated text.
const ansiReset = "\x1b[0m"

// CleanReply trims surrounding whitespace and the trailing colour reset, then
// bounds the reply to maxBytes without splitting a UTF-8 sequence.
func CleanReply(raw string, maxBytes int) string {
	reply := strings.TrimSuffix(strings.TrimSpace(raw), ansiReset)
	return truncate(reply, maxBytes)
}

func truncate(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
