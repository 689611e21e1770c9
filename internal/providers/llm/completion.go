package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/pkg/log"
	"github.com/sandevgo/everebot/pkg/retry"
)

// Completion sends the composed prompt to an OpenAI-compatible
// /v1/completions endpoint, as served by llama.cpp's server or ollama.
type Completion struct {
	client    *http.Client
	endpoint  string
	apiKey    string
	model     string
	maxTokens int
	maxReply  int
	retrier   *retry.Retrier
}

type CompletionConfig struct {
	BaseURL       string
	APIKey        string
	Model         string
	MaxTokens     int
	Timeout       time.Duration
	MaxReplyBytes int
}

func NewCompletion(cfg CompletionConfig, retrier *retry.Retrier) *Completion {
	if retrier == nil {
		retrier = retry.NewDefaultRetrier()
	}
	return &Completion{
		client:    &http.Client{Timeout: cfg.Timeout},
		endpoint:  strings.TrimRight(cfg.BaseURL, "/") + "/v1/completions",
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		maxReply:  cfg.MaxReplyBytes,
		retrier:   retrier,
	}
}

type completionRequest struct {
	Model     string   `json:"model,omitempty"`
	Prompt    string   `json:"prompt"`
	MaxTokens int      `json:"max_tokens,omitempty"`
	Stop      []string `json:"stop"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

func (c *Completion) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:     c.model,
		Prompt:    prompt,
		MaxTokens: c.maxTokens,
		Stop:      []string{segmentStop},
	})
	if err != nil {
		return "", &core.GeneratorError{Op: "completion", Err: fmt.Errorf("marshal: %w", err)}
	}

	var text string
	attempts := 0
	err = c.retrier.Do(ctx, func() error {
		attempts++
		resp, err := c.post(ctx, body)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		text, err = parseCompletion(resp)
		return err
	})
	if err != nil {
		return "", &core.GeneratorError{Op: "completion", Err: err}
	}

	log.FromCtx(ctx).Debug().Int("attempts", attempts).Msg("completion finished")
	return CleanReply(text, c.maxReply), nil
}

func (c *Completion) post(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.client.Do(req)
}

const segmentStop = "<|im_end|>"

func parseCompletion(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("http %d: %s", resp.StatusCode, tail(string(data), maxStderrBytes))
		// client errors will not improve on retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", retry.Permanent(err)
		}
		return "", err
	}

	var result completionResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", retry.Permanent(fmt.Errorf("decode: %w", err))
	}
	if len(result.Choices) == 0 {
		return "", retry.Permanent(fmt.Errorf("empty choices: %s", tail(string(data), maxStderrBytes)))
	}
	return result.Choices[0].Text, nil
}
