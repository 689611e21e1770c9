package main

import (
	"context"
	"os"
	"os/user"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/internal/httpapi"
	"github.com/sandevgo/everebot/internal/observability"
	"github.com/sandevgo/everebot/internal/providers/llm"
	"github.com/sandevgo/everebot/internal/service/chat"
	"github.com/sandevgo/everebot/internal/service/command"
	"github.com/sandevgo/everebot/internal/service/memory"
	"github.com/sandevgo/everebot/internal/service/persona"
	"github.com/sandevgo/everebot/internal/storage/jsonfile"
	"github.com/sandevgo/everebot/internal/transport/cli"
	"github.com/sandevgo/everebot/internal/transport/discord"
	"github.com/sandevgo/everebot/internal/transport/telegram"
	"github.com/sandevgo/everebot/pkg/log"
	"github.com/sandevgo/everebot/pkg/srv"
)

func NewServices(ctx context.Context, stop context.CancelFunc) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg, err := config.NewAppConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	genCfg, err := config.NewGeneratorConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	initTokenizerCache(appCfg)

	// 2. Storage
	files, err := jsonfile.NewStore(appCfg.GetMemoryDir())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	metrics := observability.NewMetrics(observability.Namespace)

	mem := memory.NewMemory(appCfg, files)
	mem.OnEvict(func(string) { metrics.Evictions.Inc() })
	services = append(services, srv.NewCleanup(func() error {
		return mem.PersistAll(context.WithoutCancel(ctx))
	}))

	// 3. Persona
	personaSrc, err := persona.NewSource(ctx, appCfg.GetPersonaPath())
	if err != nil {
		logger.Fatal().Err(err).Str("path", appCfg.GetPersonaPath()).Msg("failed to load persona")
	}
	services = append(services, personaSrc)

	// 4. Reply generator
	generator, err := llm.NewGenerator(ctx, genCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize reply generator")
	}

	// 5. Conversation handler
	router := command.New(command.NewCommands(appCfg, mem, personaSrc, stop))
	handler := chat.NewHandler(mem, router, personaSrc, generator, metrics,
		chat.WithContextSize(genCfg.GetContextSize()),
	)

	// 6. Status endpoint
	if appCfg.IsHTTPEnabled() {
		services = append(services, httpapi.New(appCfg.HTTPAddr, mem, files, metrics))
	}

	// 7. Transport
	transport, err := initTransport(ctx, appCfg, handler, stop)
	if err != nil {
		logger.Fatal().Err(err).Str("transport", appCfg.Transport).Msg("failed to initialize transport")
	}
	services = append(services, transport)

	logger.Info().
		Str("transport", appCfg.Transport).
		Str("generator", genCfg.Kind).
		Str("persona", personaSrc.Current().Name).
		Int("history", appCfg.GetHistorySize()).
		Msg("services configured")

	return services
}

func initTransport(ctx context.Context, cfg *config.AppConfig, handler *chat.Handler, stop context.CancelFunc) (srv.Service, error) {
	switch cfg.Transport {
	case config.TransportTelegram:
		tgCfg, err := config.NewTelegramConfig()
		if err != nil {
			return nil, err
		}
		return telegram.NewBot(ctx, tgCfg, handler)
	case config.TransportCLI:
		return cli.NewReadLine(handler, cfg, localName(), stop)
	default:
		dcCfg, err := config.NewDiscordConfig()
		if err != nil {
			return nil, err
		}
		return discord.NewBot(ctx, dcCfg, handler)
	}
}

func localName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "you"
}

// initTokenizerCache keeps the prompt tokenizer in the runtime directory so
// it is downloaded once.
func initTokenizerCache(cfg core.AppConfig) {
	if os.Getenv("TIKTOKEN_CACHE_DIR") != "" {
		return
	}
	dir := filepath.Join(cfg.GetRuntimePath(), "tiktoken")
	if err := os.MkdirAll(dir, 0755); err == nil {
		_ = os.Setenv("TIKTOKEN_CACHE_DIR", dir)
	}
}

// initEnv loads {runtime}/.env, then ./.env for values not set there.
// Variables already in the environment win over both.
func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)

	for _, envFile := range []string{filepath.Join(runtimePath, ".env"), ".env"} {
		if _, err := os.Stat(envFile); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
			return err
		}
		logger.Debug().Str("path", envFile).Msg("loaded .env file")
	}
	return nil
}
