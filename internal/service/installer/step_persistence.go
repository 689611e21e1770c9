package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/everebot/configs"
	"github.com/sandevgo/everebot/internal/service/persona"
	"github.com/sandevgo/everebot/pkg/env"
)

// SaveEnv writes the collected settings to {runtime}/.env. An existing file
// is never overwritten.
func SaveEnv(state *InstallState) (string, error) {
	if err := os.MkdirAll(state.RuntimePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(state.RuntimePath, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return "", fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := env.MarshalEnv(&state.Settings)
	if err != nil {
		return "", err
	}

	// holds bot tokens
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		return "", err
	}
	return envPath, nil
}

// InitializeFiles creates the memory directory and a persona file named as
// chosen. An existing persona file is kept.
func InitializeFiles(state *InstallState) error {
	if err := os.MkdirAll(filepath.Join(state.RuntimePath, "memories"), 0755); err != nil {
		return fmt.Errorf("failed to create memory directory: %w", err)
	}

	dst := filepath.Join(state.RuntimePath, "persona.yaml")
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	data, err := configs.FS.ReadFile("persona.yaml")
	if err != nil {
		return fmt.Errorf("failed to read embedded persona: %w", err)
	}
	if state.PersonaName != "" {
		if data, err = persona.Rename(data, state.PersonaName); err != nil {
			return err
		}
	}

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return next
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved || s.err != nil {
		return s, nil
	}

	if _, err := SaveEnv(state); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil // Signal completion
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// InitializeFilesStep writes the persona file and memory directory
type InitializeFilesStep struct {
	err  error
	done bool
}

func NewInitializeFilesStep() Step {
	return &InitializeFilesStep{}
}

func (s *InitializeFilesStep) Init() tea.Cmd {
	return next
}

func (s *InitializeFilesStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done || s.err != nil {
		return s, nil
	}

	if err := InitializeFiles(state); err != nil {
		s.err = err
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *InitializeFilesStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Runtime files initialized successfully!\n"
	}
	return "Initializing runtime files...\n"
}
