package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/everebot/internal/config"
)

type choice struct {
	value string
	title string
}

// ChoiceStep picks one option from a fixed list
type ChoiceStep struct {
	prompt  string
	choices []choice
	cursor  int
	apply   func(state *InstallState, value string)
}

func NewTransportStep() Step {
	return &ChoiceStep{
		prompt: "Where should Evere chat?",
		choices: []choice{
			{value: config.TransportDiscord, title: "Discord"},
			{value: config.TransportTelegram, title: "Telegram"},
			{value: config.TransportCLI, title: "Local console"},
		},
		apply: func(state *InstallState, value string) {
			state.Settings.Transport = value
		},
	}
}

func NewGeneratorStep() Step {
	return &ChoiceStep{
		prompt: "How are replies generated?",
		choices: []choice{
			{value: config.GeneratorLlamaRun, title: "llama-run binary with a local GGUF model"},
			{value: config.GeneratorOpenAI, title: "OpenAI-compatible completion server"},
		},
		apply: func(state *InstallState, value string) {
			state.Settings.Generator = value
		},
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.apply(state, s.choices[s.cursor].value)
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.title)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.title)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
