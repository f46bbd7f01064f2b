package note

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
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(store Store) *gin.Engine {
	r := gin.New()
	NewHandler(NewService(store), zap.NewNop()).RegisterRoutes(r.Group("/api"))
	return r
}

func do(t *testing.T, r http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func TestNoteRoutes(t *testing.T) {
	r := newTestRouter(NewMemoryStore())

	status, body := do(t, r, http.MethodPost, "/api/note", `{"userid":"u1","title":"Deep work","tags":["Focus"],"Type":"insight","des":"Block time"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "note is added", body["message"])
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	status, body = do(t, r, http.MethodGet, "/api/note/"+id, "")
	require.Equal(t, http.StatusOK, status)
	note := body["note"].(map[string]any)
	assert.Equal(t, "Deep work", note["title"])
	assert.Equal(t, "Block time", note["description"])
	assert.Equal(t, "insight", note["type"])

	status, body = do(t, r, http.MethodGet, "/api/note?userid=u1&search=focus", "")
	require.Equal(t, http.StatusOK, status)
	notes := body["notes"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, "Deep work", notes[0].(map[string]any)["Title"])

	status, body = do(t, r, http.MethodGet, "/api/note", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	status, _ = do(t, r, http.MethodGet, "/api/note/unknown", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = do(t, r, http.MethodPost, "/api/note", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User id is not found or Title is not provided", body["message"])
}

func TestPublicQueryRoute(t *testing.T) {
	r := newTestRouter(NewMemoryStore())
	do(t, r, http.MethodPost, "/api/note", `{"userid":"u1","title":"Go tips","Type":"link"}`)

	status, body := do(t, r, http.MethodGet, "/api/public/brain/query?q=go&limit=5", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "go", body["query"])
	assert.Equal(t, "all", body["type"])
	assert.EqualValues(t, 1, body["count"])
	assert.NotEmpty(t, body["timestamp"])
}
