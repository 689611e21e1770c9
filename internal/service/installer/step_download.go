package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type progressMsg float64
type downloadDoneMsg string

// DownloadModelStep fetches the GGUF model into {runtime}/models.
type DownloadModelStep struct {
	progress progress.Model
	updates  chan tea.Msg
	state    *InstallState
	err      error
	done     bool
	path     string
}

func NewDownloadModelStep() Step {
	return &DownloadModelStep{
		progress: progress.New(progress.WithDefaultGradient()),
		updates:  make(chan tea.Msg),
	}
}

func (s *DownloadModelStep) Skip(state *InstallState) bool {
	s.state = state
	return state.ModelURL == ""
}

func (s *DownloadModelStep) Init() tea.Cmd {
	go s.doDownload(s.state.RuntimePath, s.state.ModelURL)
	return s.waitForActivity()
}

func (s *DownloadModelStep) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		return <-s.updates
	}
}

// modelDestination names the local file after the last URL path segment.
func modelDestination(runtimePath, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("cannot name a model file after %q", rawURL)
	}
	return filepath.Join(runtimePath, "models", name), nil
}

func (s *DownloadModelStep) doDownload(runtimePath, rawURL string) {
	destPath, err := modelDestination(runtimePath, rawURL)
	if err == nil {
		err = fetchModel(context.Background(), http.DefaultClient, rawURL, destPath, func(p float64) {
			s.updates <- progressMsg(p)
		})
	}
	if err != nil {
		s.updates <- errMsg(err)
		return
	}
	s.updates <- downloadDoneMsg(destPath)
}

// fetchModel downloads rawURL to destPath unless the file is already there.
// Bytes land in destPath+".part" first and are renamed into place on success.
func fetchModel(ctx context.Context, client *http.Client, rawURL, destPath string, onProgress func(float64)) error {
	if _, err := os.Stat(destPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	tmp := destPath + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	counter := &progressCounter{total: resp.ContentLength, report: onProgress}
	_, err = io.Copy(io.MultiWriter(out, counter), resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, destPath)
}

func (s *DownloadModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	s.progress.Width = width - 10

	switch msg := msg.(type) {
	case progressMsg:
		return s, tea.Batch(s.waitForActivity(), s.progress.SetPercent(float64(msg)))

	case downloadDoneMsg:
		state.Settings.LlamaModel = string(msg)
		s.done = true
		s.path = string(msg)
		return nil, nil

	case errMsg:
		s.err = msg
		return s, nil

	case progress.FrameMsg:
		progressModel, cmd := s.progress.Update(msg)
		s.progress = progressModel.(progress.Model)
		return s, cmd

	case tea.WindowSizeMsg:
		s.progress.Width = msg.Width - 10
	}

	return s, nil
}

func (s *DownloadModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Download failed: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return fmt.Sprintf("Model ready at: %s\n", s.path)
	}

	return "Downloading model (GGUF)...\nThis may take a while depending on your connection.\n\n" +
		s.progress.View() + "\n"
}

// progressCounter reports whole-percent steps only, so the UI channel is
// not flooded with one message per read.
type progressCounter struct {
	total   int64
	written int64
	last    int
	report  func(float64)
}

func (c *progressCounter) Write(p []byte) (int, error) {
	c.written += int64(len(p))
	if c.total <= 0 || c.report == nil {
		return len(p), nil
	}
	if pct := int(c.written * 100 / c.total); pct > c.last {
		c.last = pct
		c.report(float64(c.written) / float64(c.total))
	}
	return len(p), nil
}
