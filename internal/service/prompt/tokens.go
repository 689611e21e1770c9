package prompt

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

// CountTokens estimates the prompt size with the cl100k_base encoding. The
// local model uses its own vocabulary, so this is only a guide for spotting
// prompts that approach the context size.
func CountTokens(text string) (int, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	if tkErr != nil {
		return 0, fmt.Errorf("failed to load tokenizer: %w", tkErr)
	}
	return len(tk.Encode(text, nil, nil)), nil
}
