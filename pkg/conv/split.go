package conv

import (
	"strings"
	"unicode/utf8"
)

// Split breaks text into chunks of at most maxLen bytes for platforms that
// cap message size. It prefers to cut at a newline in the latter part of a
// chunk, then at a space, and never cuts inside a UTF-8 sequence.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 || len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if idx := strings.LastIndex(text[:cut], "\n"); idx > maxLen/3 {
			cut = idx
		} else if idx := strings.LastIndex(text[:cut], " "); idx > maxLen/3 {
			cut = idx
		}

		if chunk := strings.TrimSpace(text[:cut]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
