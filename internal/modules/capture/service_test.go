package capture

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/second-brain/core/internal/modules/processing/ai"
	"github.com/second-brain/core/internal/pkg/apperr"
)

const helloPage = `<html><head><title>Hello</title></head>
<body><nav>menu</nav><p>Gardening guides explain composting. Composting improves gardening soil.</p></body></html>`

type stubGenerator struct {
	reply string
	err   error
}

func (s stubGenerator) Generate(context.Context, ai.Request) (string, error) {
	return s.reply, s.err
}

func newPageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hello":
			assert.Contains(t, r.UserAgent(), "Mozilla/5.0")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(helloPage))
		case "/latin1":
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<title>Caf\xe9</title><p>cr\xe8me</p>"))
		case "/big":
			_, _ = w.Write([]byte("<title>Big</title>" + strings.Repeat("a", 2048)))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(gen ai.Generator) *Service {
	fetcher := NewHTTPFetcher(FetcherOptions{Timeout: 2 * time.Second, MaxBytes: 1 << 20})
	gw := ai.New(ai.Options{Generator: gen, Logger: zap.NewNop()})
	return NewService(fetcher, gw, zap.NewNop())
}

func TestExtractWithoutAI(t *testing.T) {
	srv := newPageServer(t)
	out, err := newTestService(nil).Extract(context.Background(), srv.URL+"/hello")
	require.NoError(t, err)

	assert.Equal(t, "Hello", out.Title)
	assert.False(t, out.AIGenerated)
	assert.Equal(t, []string{"Hello", "Gardening", "Composting", "Guides"}, out.Tags)
	assert.Equal(t, "Hello Gardening guides explain composting. Composting improves gardening soil.", out.Content)
	assert.Equal(t, out.Content+"...", out.Summary)
	assert.Equal(t, []string{}, out.KeyPoints)
}

func TestExtractConvergesOnAIFailure(t *testing.T) {
	srv := newPageServer(t)
	offline, err := newTestService(nil).Extract(context.Background(), srv.URL+"/hello")
	require.NoError(t, err)

	for _, gen := range []ai.Generator{
		stubGenerator{reply: "definitely not json"},
		stubGenerator{err: errors.New("connection reset")},
	} {
		got, err := newTestService(gen).Extract(context.Background(), srv.URL+"/hello")
		require.NoError(t, err)
		assert.Equal(t, offline, got)
	}
}

func TestExtractWithAI(t *testing.T) {
	srv := newPageServer(t)
	gen := stubGenerator{reply: `{"summary":"About compost.","tags":["Garden","Compost","Soil"],"keyPoints":["Compost","Feed soil","Repeat"]}`}

	out, err := newTestService(gen).Extract(context.Background(), srv.URL+"/hello")
	require.NoError(t, err)
	assert.True(t, out.AIGenerated)
	assert.Equal(t, "About compost.", out.Summary)
	assert.Equal(t, []string{"Garden", "Compost", "Soil"}, out.Tags)
	assert.Len(t, out.KeyPoints, 3)
	assert.NotEmpty(t, out.Content)
}

func TestExtractErrors(t *testing.T) {
	srv := newPageServer(t)
	svc := newTestService(nil)

	_, err := svc.Extract(context.Background(), "  ")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	assert.Equal(t, "URL is required", apperr.MessageOf(err))

	for _, bad := range []string{"not a url", "example.com/page", "ftp://example.com/file"} {
		_, err = svc.Extract(context.Background(), bad)
		assert.Equal(t, "Invalid URL format", apperr.MessageOf(err), bad)
	}

	_, err = svc.Extract(context.Background(), srv.URL+"/missing")
	assert.True(t, errors.Is(err, apperr.ErrUpstreamFetchFailed))

	_, err = svc.Extract(context.Background(), "http://127.0.0.1:1/unreachable")
	assert.True(t, errors.Is(err, apperr.ErrUpstreamFetchFailed))
}

func TestFetcherDecodesCharsetAndCapsBody(t *testing.T) {
	srv := newPageServer(t)

	body, err := NewHTTPFetcher(FetcherOptions{Timeout: time.Second}).Fetch(context.Background(), srv.URL+"/latin1")
	require.NoError(t, err)
	assert.Equal(t, "<title>Café</title><p>crème</p>", body)

	body, err = NewHTTPFetcher(FetcherOptions{Timeout: time.Second, MaxBytes: 100}).Fetch(context.Background(), srv.URL+"/big")
	require.NoError(t, err)
	assert.Len(t, body, 100)
}
