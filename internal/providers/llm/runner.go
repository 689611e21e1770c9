package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/pkg/log"
)

const maxStderrBytes = 2000

// MaxArgBytes is the largest prompt Runner hands to the binary. Linux refuses
// any single argv element over 128 KiB (MAX_ARG_STRLEN) with E2BIG.
const MaxArgBytes = 128*1024 - 1

var ErrPromptTooLarge = errors.New("prompt exceeds the command-line argument limit")

// Runner produces replies by launching a llama-run style binary once per
// prompt: `<binary> <model> <prompt> -c <context size>`.
type Runner struct {
	binary      string
	model       string
	contextSize int
	timeout     time.Duration
	maxReply    int
}

type RunnerConfig struct {
	Binary        string
	Model         string
	ContextSize   int
	Timeout       time.Duration
	MaxReplyBytes int
}

func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{
		binary:      cfg.Binary,
		model:       cfg.Model,
		contextSize: cfg.ContextSize,
		timeout:     cfg.Timeout,
		maxReply:    cfg.MaxReplyBytes,
	}
}

func (r *Runner) Generate(ctx context.Context, prompt string) (string, error) {
	logger := log.FromCtx(ctx)

	if len(prompt) > MaxArgBytes {
		return "", &core.GeneratorError{
			Op:       "llama-run",
			ExitCode: -1,
			Err:      fmt.Errorf("%w: %d bytes, limit %d; lower EVERE_HISTORY_SIZE or use the openai generator", ErrPromptTooLarge, len(prompt), MaxArgBytes),
		}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := []string{r.model, prompt, "-c", strconv.Itoa(r.contextSize)}
	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		genErr := &core.GeneratorError{
			Op:       "llama-run",
			ExitCode: -1,
			Stderr:   tail(stderr.String(), maxStderrBytes),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			genErr.ExitCode = exitErr.ExitCode()
		}
		// exec.CommandContext reports "signal: killed" rather than the context error
		if ctx.Err() != nil {
			genErr.Err = ctx.Err()
		}
		return "", genErr
	}

	logger.Debug().
		Dur("elapsed", elapsed).
		Int("stdout_bytes", stdout.Len()).
		Msg("llama-run finished")

	return CleanReply(stdout.String(), r.maxReply), nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
