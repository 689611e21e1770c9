package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Path(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: "dm-12345"},
		{key: "server-1-channel-2"},
		{key: "", wantErr: true},
		{key: "../escape", wantErr: true},
		{key: "a/b", wantErr: true},
		{key: ".hidden", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			path, err := s.Path(tt.key)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(s.Dir(), tt.key+".json"), path)
		})
	}
}

func TestStore_ReadMissing(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	records, found, err := s.Read(context.Background(), "dm-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, records)
}

func TestStore_WriteFormat(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "dm-12345", []core.Record{
		core.NewRecord("Alice", "Ummm"),
		core.NewRecord("Evere", "Mornin Homie"),
	}))

	data, err := os.ReadFile(filepath.Join(s.Dir(), "dm-12345.json"))
	require.NoError(t, err)

	want := "[\n" +
		"  {\n    \"author\": \"Alice\",\n    \"text\": \"Ummm\",\n    \"kwargs\": {}\n  },\n" +
		"  {\n    \"author\": \"Evere\",\n    \"text\": \"Mornin Homie\",\n    \"kwargs\": {}\n  }\n" +
		"]"
	assert.Equal(t, want, string(data))
}

func TestStore_WriteNilIsEmptyArray(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "dm-1", nil))
	data, err := os.ReadFile(filepath.Join(s.Dir(), "dm-1.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Write(ctx, "dm-1", []core.Record{core.NewRecord("Bob", "hi")}))
	}

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dm-1.json", entries[0].Name())

	info, err := os.Stat(filepath.Join(s.Dir(), "dm-1.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestStore_ReadMalformed(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	tests := map[string]string{
		"truncated":  `[{"author": "Bob"`,
		"not array":  `{"author": "Bob", "text": "hi"}`,
		"bad record": `[{"author": "Bob"}]`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "dm-bad.json"), []byte(content), 0644))

			_, found, err := s.Read(context.Background(), "dm-bad")
			assert.True(t, found)
			var readErr *core.StorageReadError
			require.ErrorAs(t, err, &readErr)
			assert.Equal(t, "dm-bad", readErr.Key)
		})
	}
}

func TestStore_RemoveAndKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "dm-1", nil))
	require.NoError(t, s.Write(ctx, "server-2-channel-3", nil))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"dm-1", "server-2-channel-3"}, keys)

	require.NoError(t, s.Remove(ctx, "dm-1"))
	require.NoError(t, s.Remove(ctx, "dm-1"), "removing twice is fine")

	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"server-2-channel-3"}, keys)
}
