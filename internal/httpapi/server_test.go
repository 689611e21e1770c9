package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/internal/observability"
	"github.com/sandevgo/everebot/internal/service/memory"
	"github.com/sandevgo/everebot/internal/storage/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *memory.Memory, *jsonfile.Store) {
	t.Helper()
	files, err := jsonfile.NewStore(t.TempDir())
	require.NoError(t, err)
	mem := memory.New(files, 10)
	return New("127.0.0.1:0", mem, files, observability.NewMetrics(observability.Namespace)), mem, files
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, core.EvereVersion, body["version"])
}

func TestServer_Metrics(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "evere_messages_in_flight")
}

func TestServer_History(t *testing.T) {
	s, mem, files := newTestServer(t)
	ctx := context.Background()

	_, err := mem.Load(ctx, "dm-1")
	require.NoError(t, err)
	require.NoError(t, mem.Append("dm-1", core.NewRecord("Bob", "unsaved")))

	require.NoError(t, files.Write(ctx, "server-1-channel-2", []core.Record{core.NewRecord("Ann", "stored")}))
	require.NoError(t, os.WriteFile(filepath.Join(files.Dir(), "dm-bad.json"), []byte("[{"), 0o644))

	tests := []struct {
		name         string
		path         string
		wantStatus   int
		wantResident bool
		wantTexts    []string
		wantCode     string
	}{
		{
			name:         "resident history includes unsaved records",
			path:         "/v1/contexts/dm-1/history",
			wantStatus:   http.StatusOK,
			wantResident: true,
			wantTexts:    []string{"unsaved"},
		},
		{
			name:       "stored history is read from file",
			path:       "/v1/contexts/server-1-channel-2/history",
			wantStatus: http.StatusOK,
			wantTexts:  []string{"stored"},
		},
		{
			name:       "unknown key",
			path:       "/v1/contexts/dm-404/history",
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "malformed file",
			path:       "/v1/contexts/dm-bad/history",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "storage_read",
		},
		{
			name:       "hidden key rejected",
			path:       "/v1/contexts/.secret/history",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.path)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantCode != "" {
				var e errorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
				assert.Equal(t, tt.wantCode, e.Code)
				return
			}

			var h historyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
			assert.Equal(t, tt.wantResident, h.Resident)
			texts := make([]string, 0, len(h.Records))
			for _, r := range h.Records {
				texts = append(texts, r.Text)
			}
			assert.Equal(t, tt.wantTexts, texts)
		})
	}

	// inspection must not load anything
	_, resident := mem.Snapshot("server-1-channel-2")
	assert.False(t, resident)
}

func TestServer_ListContexts(t *testing.T) {
	s, mem, files := newTestServer(t)
	ctx := context.Background()

	_, err := mem.Load(ctx, "dm-1")
	require.NoError(t, err)
	require.NoError(t, files.Write(ctx, "dm-2", nil))

	rec := get(t, s, "/v1/contexts")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Contexts []contextSummary `json:"contexts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []contextSummary{
		{Key: "dm-1", Resident: true, Stored: true},
		{Key: "dm-2", Stored: true},
	}, body.Contexts)
}
