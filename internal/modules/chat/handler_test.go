package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/second-brain/core/internal/modules/content/note"
)

func TestChatRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := note.NewMemoryStore()
	seed(t, store,
		note.NoteRecord{Title: "Morning routine", Tags: []string{"productivity"}, Kind: note.KindNote},
		note.NoteRecord{Title: "Time blocking", Tags: []string{"productivity"}, Kind: note.KindLink},
	)

	var gated int
	gate := func(c *gin.Context) { gated++; c.Next() }

	r := gin.New()
	NewHandler(newTestService(store, nil), zap.NewNop()).RegisterRoutes(r.Group("/api"), gate)

	post := func(body string) (int, map[string]any) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return w.Code, out
	}

	status, body := post(`{"message":"notes about productivity"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["aiGenerated"])
	assert.Contains(t, body["response"], "2 relevant notes")
	sources := body["sources"].([]any)
	require.Len(t, sources, 2)
	first := sources[0].(map[string]any)
	assert.Equal(t, "Time blocking", first["title"])
	assert.Equal(t, "link", first["type"])

	status, body = post(`{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Message is required", body["message"])

	status, _ = post(`not json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, 3, gated)
}
