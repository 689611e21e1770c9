package installer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/service/persona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func feed(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestWizard_ConsoleWithCompletionServer(t *testing.T) {
	dir := t.TempDir()
	m := initialModel(dir)

	m = feed(t, m,
		down, down, enter, // Local console
		typed("Juniper"), enter, // persona name
		down, enter, // completion server
		enter, // default server URL
		nextMsg{}, // finalization
		nextMsg{}, // save .env
		nextMsg{}, // persona and memories
	)
	require.NoError(t, m.err)
	assert.Equal(t, len(m.steps), m.currentStep)

	env, err := godotenv.Read(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"EVERE_TRANSPORT":       config.TransportCLI,
		"EVERE_GENERATOR":       config.GeneratorOpenAI,
		"EVERE_OPENAI_BASE_URL": "http://localhost:8080",
	}, env)

	data, err := os.ReadFile(filepath.Join(dir, "persona.yaml"))
	require.NoError(t, err)
	p, err := persona.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Juniper", p.Name)

	info, err := os.Stat(filepath.Join(dir, "memories"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWizard_TelegramWithLlamaRun(t *testing.T) {
	dir := t.TempDir()
	m := initialModel(dir)

	m = feed(t, m,
		down, enter, // Telegram
		typed("123:abc"), enter, // token
		typed("not-a-number"), enter, // rejected owner id
	)
	step, ok := m.steps[m.currentStep].(*InputStep)
	require.True(t, ok)
	assert.Error(t, step.err)

	m = feed(t, m,
		tea.KeyMsg{Type: tea.KeyCtrlU}, typed("42"), enter, // owner id
		enter,        // default persona name
		enter,        // llama-run
		enter,        // default binary
		enter,        // no download
		enter,        // default model path
		nextMsg{}, nextMsg{}, nextMsg{},
	)
	require.NoError(t, m.err)

	env, err := godotenv.Read(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"EVERE_TRANSPORT":    config.TransportTelegram,
		"TELEGRAM_TOKEN":     "123:abc",
		"TELEGRAM_OWNER_ID":  "42",
		"EVERE_GENERATOR":    config.GeneratorLlamaRun,
		"EVERE_LLAMA_BINARY": "llama/llama-run",
		"EVERE_LLAMA_MODEL":  "models/evere8b-u3-base.gguf",
	}, env)

	info, err := os.Stat(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWizard_CtrlCQuits(t *testing.T) {
	m := feed(t, initialModel(t.TempDir()), tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.quitting)
}

func TestSaveEnv_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("KEEP=1\n"), 0600))

	_, err := SaveEnv(&InstallState{RuntimePath: dir})
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "KEEP=1\n", string(data))
}

func TestInitializeFiles_KeepsExistingPersona(t *testing.T) {
	dir := t.TempDir()
	custom := []byte("name: Custom\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "persona.yaml"), custom, 0644))

	require.NoError(t, InitializeFiles(&InstallState{RuntimePath: dir, PersonaName: "Other"}))

	data, err := os.ReadFile(filepath.Join(dir, "persona.yaml"))
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}

func TestFinalize(t *testing.T) {
	state := &InstallState{
		Settings: Settings{
			Transport:       config.TransportDiscord,
			DiscordToken:    "d",
			TelegramToken:   "t",
			TelegramOwnerID: 5,
			Generator:       config.GeneratorOpenAI,
			LlamaBinary:     "bin",
			LlamaModel:      "model",
			OpenAIBaseURL:   "http://x",
		},
		ModelURL: "https://example.com/m.gguf",
	}

	finalize(state)

	assert.Equal(t, Settings{
		Transport:     config.TransportDiscord,
		DiscordToken:  "d",
		Generator:     config.GeneratorOpenAI,
		OpenAIBaseURL: "http://x",
	}, state.Settings)
	assert.Empty(t, state.ModelURL)
}

func TestModelDestination(t *testing.T) {
	got, err := modelDestination("/rt", "https://huggingface.co/org/repo/resolve/main/evere8b.gguf?download=true")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/rt", "models", "evere8b.gguf"), got)

	_, err = modelDestination("/rt", "https://example.com/")
	assert.Error(t, err)
}

func TestFetchModel(t *testing.T) {
	payload := strings.Repeat("gguf", 1000)
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/missing.gguf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "models", "evere.gguf")
	var reports []float64

	err := fetchModel(context.Background(), srv.Client(), srv.URL+"/evere.gguf", dest, func(p float64) {
		reports = append(reports, p)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
	assert.NoFileExists(t, dest+".part")
	require.NotEmpty(t, reports)
	assert.InDelta(t, 1.0, reports[len(reports)-1], 0.0001)

	// already present, no second request
	require.NoError(t, fetchModel(context.Background(), srv.Client(), srv.URL+"/evere.gguf", dest, nil))
	assert.Equal(t, 1, hits)

	missing := filepath.Join(filepath.Dir(dest), "missing.gguf")
	err = fetchModel(context.Background(), srv.Client(), srv.URL+"/missing.gguf", missing, nil)
	assert.ErrorContains(t, err, "status 404")
	assert.NoFileExists(t, missing)
}
