package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/everebot/internal/config"
)

// FinalizationStep drops answers that do not apply to the final choices
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return next
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	st := &state.Settings

	if st.Transport == "" {
		st.Transport = config.TransportDiscord
	}
	if st.Generator == "" {
		st.Generator = config.GeneratorLlamaRun
	}

	if st.Transport != config.TransportDiscord {
		st.DiscordToken = ""
	}
	if st.Transport != config.TransportTelegram {
		st.TelegramToken = ""
		st.TelegramOwnerID = 0
	}

	switch st.Generator {
	case config.GeneratorLlamaRun:
		st.OpenAIBaseURL = ""
	case config.GeneratorOpenAI:
		st.LlamaBinary = ""
		st.LlamaModel = ""
		state.ModelURL = ""
	}
}
