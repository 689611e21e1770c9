package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/pkg/log"
	"golang.org/x/sync/errgroup"
)

var ErrNotLoaded = errors.New("history not loaded")

const persistWorkers = 4

// Files is the durable side of the store: one file per context key.
type Files interface {
	Read(ctx context.Context, key string) ([]core.Record, bool, error)
	Write(ctx context.Context, key string, records []core.Record) error
	Remove(ctx context.Context, key string) error
}

// Memory owns the bounded history of every context key loaded during the
// process lifetime and mirrors each one to its file.
type Memory struct {
	files    Files
	capacity int

	mu        sync.Mutex
	histories map[string]*History
	keyLocks  map[string]*sync.Mutex
	onEvict   func(key string)
}

func NewMemory(cfg core.AppConfig, files Files) *Memory {
	return New(files, cfg.GetHistorySize())
}

func New(files Files, capacity int) *Memory {
	return &Memory{
		files:     files,
		capacity:  capacity,
		histories: make(map[string]*History),
		keyLocks:  make(map[string]*sync.Mutex),
	}
}

// OnEvict registers a callback fired whenever an append drops the oldest record.
func (m *Memory) OnEvict(fn func(key string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

func (m *Memory) Capacity() int {
	return m.capacity
}

// Lock serializes whole load/append/persist sequences for one key. The
// returned function releases it.
func (m *Memory) Lock(key string) func() {
	m.mu.Lock()
	l, ok := m.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		m.keyLocks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Load returns the history for key, reading it from disk on first use.
// A key without a file starts empty and gets an empty file right away.
func (m *Memory) Load(ctx context.Context, key string) ([]core.Record, error) {
	m.mu.Lock()
	if h, ok := m.histories[key]; ok {
		records := h.Records()
		m.mu.Unlock()
		return records, nil
	}
	m.mu.Unlock()

	logger := log.FromCtx(ctx)

	stored, found, err := m.files.Read(ctx, key)
	if err != nil {
		return nil, err
	}

	h := NewHistory(m.capacity, stored...)
	if found && len(stored) > h.Len() {
		logger.Warn().Str("key", key).Int("stored", len(stored)).Int("kept", h.Len()).Msg("history file exceeds capacity, trimmed")
	}

	m.mu.Lock()
	if existing, ok := m.histories[key]; ok {
		// another caller loaded it meanwhile
		records := existing.Records()
		m.mu.Unlock()
		return records, nil
	}
	m.histories[key] = h
	records := h.Records()
	m.mu.Unlock()

	if !found {
		logger.Debug().Str("key", key).Msg("no history file, starting empty")
		if err := m.Persist(ctx, key); err != nil {
			return nil, err
		}
	}

	return records, nil
}

// Append adds r to the end of a loaded history. It does not persist.
func (m *Memory) Append(key string, r core.Record) error {
	m.mu.Lock()
	h, ok := m.histories[key]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotLoaded, key)
	}
	evicted := h.Push(r)
	onEvict := m.onEvict
	m.mu.Unlock()

	if evicted && onEvict != nil {
		onEvict(key)
	}
	return nil
}

// Persist writes the in-memory history for key to its file. Keys never
// loaded in this process are left alone.
func (m *Memory) Persist(ctx context.Context, key string) error {
	m.mu.Lock()
	h, ok := m.histories[key]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	records := h.Records()
	m.mu.Unlock()

	if err := m.files.Write(ctx, key, records); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// Clear replaces the history for key with one holding only seed and removes
// its file. The next Persist writes the seeded content back.
func (m *Memory) Clear(ctx context.Context, key string, seed []core.Record) error {
	m.mu.Lock()
	m.histories[key] = NewHistory(m.capacity, seed...)
	m.mu.Unlock()

	if err := m.files.Remove(ctx, key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", key, err)
	}

	log.FromCtx(ctx).Info().Str("key", key).Int("seeded", len(seed)).Msg("history cleared")
	return nil
}

// PersistAll writes every resident history, a few files at a time. Used on
// shutdown; one failing key does not stop the others.
func (m *Memory) PersistAll(ctx context.Context) error {
	var (
		mu   sync.Mutex
		errs []error
	)

	g := new(errgroup.Group)
	g.SetLimit(persistWorkers)
	for _, key := range m.Keys() {
		g.Go(func() error {
			if err := m.Persist(ctx, key); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Snapshot returns the resident history for key without touching disk.
func (m *Memory) Snapshot(key string) ([]core.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.histories[key]
	if !ok {
		return nil, false
	}
	return h.Records(), true
}

// Keys lists the resident context keys.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.histories))
	for k := range m.histories {
		keys = append(keys, k)
	}
	return keys
}
