package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/core"
)

// InputStep collects one line of text. An empty answer takes the fallback;
// without a fallback it is kept empty only when the step is optional.
type InputStep struct {
	prompt   string
	input    textinput.Model
	fallback string
	optional bool
	skip     func(state *InstallState) bool
	apply    func(state *InstallState, value string) error
	err      error
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func unlessTransport(name string) func(*InstallState) bool {
	return func(state *InstallState) bool { return state.Settings.Transport != name }
}

func unlessGenerator(name string) func(*InstallState) bool {
	return func(state *InstallState) bool { return state.Settings.Generator != name }
}

func NewDiscordTokenStep() Step {
	return &InputStep{
		prompt: "Enter your Discord bot token:",
		input:  newInput("MTE...", true),
		skip:   unlessTransport(config.TransportDiscord),
		apply: func(state *InstallState, value string) error {
			state.Settings.DiscordToken = value
			return nil
		},
	}
}

func NewTelegramTokenStep() Step {
	return &InputStep{
		prompt: "Enter your Telegram bot token:",
		input:  newInput("123456789:ABCDEF...", true),
		skip:   unlessTransport(config.TransportTelegram),
		apply: func(state *InstallState, value string) error {
			state.Settings.TelegramToken = value
			return nil
		},
	}
}

func NewTelegramOwnerStep() Step {
	return &InputStep{
		prompt:   "Only answer one Telegram user? Enter their numeric ID, or leave empty for everyone:",
		input:    newInput("123456789", false),
		optional: true,
		skip:     unlessTransport(config.TransportTelegram),
		apply: func(state *InstallState, value string) error {
			if value == "" {
				state.Settings.TelegramOwnerID = 0
				return nil
			}
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("not a numeric user id: %q", value)
			}
			state.Settings.TelegramOwnerID = id
			return nil
		},
	}
}

func NewPersonaNameStep() Step {
	return &InputStep{
		prompt:   "What is the persona called?",
		input:    newInput(core.EvereName, false),
		fallback: core.EvereName,
		apply: func(state *InstallState, value string) error {
			state.PersonaName = value
			return nil
		},
	}
}

func NewLlamaBinaryStep() Step {
	return &InputStep{
		prompt:   "Path to the llama-run binary:",
		input:    newInput("llama/llama-run", false),
		fallback: "llama/llama-run",
		skip:     unlessGenerator(config.GeneratorLlamaRun),
		apply: func(state *InstallState, value string) error {
			state.Settings.LlamaBinary = value
			return nil
		},
	}
}

func NewModelURLStep() Step {
	return &InputStep{
		prompt:   "Download a GGUF model? Enter its URL, or leave empty to use a file you already have:",
		input:    newInput("https://huggingface.co/.../model.gguf", false),
		optional: true,
		skip:     unlessGenerator(config.GeneratorLlamaRun),
		apply: func(state *InstallState, value string) error {
			if value != "" && !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
				return fmt.Errorf("not an http(s) URL: %q", value)
			}
			state.ModelURL = value
			return nil
		},
	}
}

func NewModelPathStep() Step {
	return &InputStep{
		prompt:   "Path to the GGUF model:",
		input:    newInput("models/evere8b-u3-base.gguf", false),
		fallback: "models/evere8b-u3-base.gguf",
		skip: func(state *InstallState) bool {
			return state.Settings.Generator != config.GeneratorLlamaRun || state.ModelURL != ""
		},
		apply: func(state *InstallState, value string) error {
			state.Settings.LlamaModel = value
			return nil
		},
	}
}

func NewServerURLStep() Step {
	return &InputStep{
		prompt:   "Base URL of the completion server:",
		input:    newInput("http://localhost:8080", false),
		fallback: "http://localhost:8080",
		skip:     unlessGenerator(config.GeneratorOpenAI),
		apply: func(state *InstallState, value string) error {
			state.Settings.OpenAIBaseURL = strings.TrimSuffix(value, "/")
			return nil
		},
	}
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.fallback
		}
		if val == "" && !s.optional {
			s.err = fmt.Errorf("a value is required")
			return s, cmd
		}
		if err := s.apply(state, val); err != nil {
			s.err = err
			return s, cmd
		}
		return nil, nil
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	view := s.prompt + "\n\n" + s.input.View() + "\n\n"
	if s.err != nil {
		view += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return view + "(press enter to confirm)\n"
}
