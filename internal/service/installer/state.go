package installer

// Settings is what the wizard writes to the runtime .env file. Zero values
// are left out so the defaults in internal/config apply.
type Settings struct {
	Transport       string `env:"EVERE_TRANSPORT"`
	DiscordToken    string `env:"DISCORD_TOKEN"`
	TelegramToken   string `env:"TELEGRAM_TOKEN"`
	TelegramOwnerID int64  `env:"TELEGRAM_OWNER_ID"`
	Generator       string `env:"EVERE_GENERATOR"`
	LlamaBinary     string `env:"EVERE_LLAMA_BINARY"`
	LlamaModel      string `env:"EVERE_LLAMA_MODEL"`
	OpenAIBaseURL   string `env:"EVERE_OPENAI_BASE_URL"`
}

type InstallState struct {
	RuntimePath string
	Settings    Settings

	// Not written to .env
	PersonaName string
	ModelURL    string
}

func NewInstallState(runtimePath string) *InstallState {
	return &InstallState{
		RuntimePath: runtimePath,
	}
}
