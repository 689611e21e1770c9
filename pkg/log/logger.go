package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

const bufferSize = 1000

// NewContextWithLogger installs a console logger as the global and
// context logger. Writes go through a diode ring buffer so a slow terminal
// never stalls message handling; the returned func flushes it.
func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	wr := diode.NewWriter(os.Stdout, bufferSize, 5*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "logger dropped %d messages\n", missed)
	})

	log.Logger = newLogger(wr, debug)
	return log.Logger.WithContext(ctx), func() { _ = wr.Close() }
}

func newLogger(w io.Writer, withCaller bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
	}

	lc := zerolog.New(out).With().Timestamp()
	if withCaller {
		lc = lc.Caller()
	}
	return lc.Logger()
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}

// WithFields returns a child context whose logger carries the given string fields.
func WithFields(ctx context.Context, kv ...string) context.Context {
	lc := FromCtx(ctx).With()
	for i := 0; i+1 < len(kv); i += 2 {
		lc = lc.Str(kv[i], kv[i+1])
	}
	return lc.Logger().WithContext(ctx)
}
