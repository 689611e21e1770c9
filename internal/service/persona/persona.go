package persona

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sandevgo/everebot/configs"
	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/pkg/log"
	"gopkg.in/yaml.v3"
)

const (
	fromUser    = "user"
	fromPersona = "persona"
)

type fileFormat struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Instructions string `yaml:"instructions"`
	Greeting     []struct {
		From string `yaml:"from"`
		Text string `yaml:"text"`
	} `yaml:"greeting"`
}

// Parse decodes a persona document. {{name}} in the instructions is replaced
// by the persona name.
func Parse(data []byte) (core.Persona, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return core.Persona{}, fmt.Errorf("failed to parse persona: %w", err)
	}

	name := strings.TrimSpace(f.Name)
	if name == "" {
		return core.Persona{}, fmt.Errorf("persona name is empty")
	}

	p := core.Persona{
		Name:         name,
		Description:  strings.TrimSpace(f.Description),
		Instructions: strings.ReplaceAll(strings.TrimSpace(f.Instructions), "{{name}}", name),
	}
	for i, g := range f.Greeting {
		switch strings.ToLower(strings.TrimSpace(g.From)) {
		case fromUser, "":
			p.Greeting = append(p.Greeting, core.GreetingLine{Text: g.Text})
		case fromPersona:
			p.Greeting = append(p.Greeting, core.GreetingLine{FromPersona: true, Text: g.Text})
		default:
			return core.Persona{}, fmt.Errorf("greeting %d: unknown author %q", i, g.From)
		}
	}
	return p, nil
}

// Default is the persona shipped with the binary.
func Default() core.Persona {
	data, err := configs.FS.ReadFile("persona.yaml")
	if err != nil {
		panic("embedded persona missing: " + err.Error())
	}
	p, err := Parse(data)
	if err != nil {
		panic("embedded persona invalid: " + err.Error())
	}
	return p
}

// Source serves the current persona and reloads it when its file changes.
type Source struct {
	path string

	mu      sync.RWMutex
	current core.Persona
	watcher *fsnotify.Watcher
}

// NewSource loads the persona at path, falling back to Default when the
// file does not exist.
func NewSource(ctx context.Context, path string) (*Source, error) {
	s := &Source{path: path}

	p, err := s.read()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		log.FromCtx(ctx).Info().Str("path", path).Msg("persona file not found, using built-in persona")
		p = Default()
	}
	s.current = p
	return s, nil
}

func (s *Source) read() (core.Persona, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return core.Persona{}, err
	}
	return Parse(data)
}

func (s *Source) Current() core.Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload re-reads the persona file. A broken file keeps the previous persona.
func (s *Source) Reload(ctx context.Context) error {
	p, err := s.read()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = p
	s.mu.Unlock()

	log.FromCtx(ctx).Info().Str("persona", p.Name).Msg("persona reloaded")
	return nil
}

// Start watches the persona's directory until ctx is done. Editors often
// replace files by rename, so the directory is watched rather than the file.
func (s *Source) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create persona watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		logger.Warn().Err(err).Str("dir", dir).Msg("persona hot reload disabled")
		return nil
	}

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(ctx); err != nil {
				logger.Warn().Err(err).Msg("persona reload failed, keeping previous persona")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("persona watcher error")
		}
	}
}

func (s *Source) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Rename rewrites a persona document for a new persona name. Placeholders in
// the instructions are kept, and mentions of the old name in the description
// follow the rename.
func Rename(data []byte, name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("persona name is empty")
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse persona: %w", err)
	}
	if f.Name != "" {
		f.Description = strings.ReplaceAll(f.Description, f.Name, name)
	}
	f.Name = name

	out, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode persona: %w", err)
	}
	return out, nil
}
