package note

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/second-brain/core/internal/pkg/apperr"
)

func TestCreateValidatesAndDefaultsKind(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Title: "no owner"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = svc.Create(ctx, CreateInput{OwnerID: "u", Title: "x", Kind: "essay"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	rec, err := svc.Create(ctx, CreateInput{OwnerID: "u", Title: " Title ", Tags: []string{" go ", ""}})
	require.NoError(t, err)
	assert.Equal(t, KindNote, rec.Kind)
	assert.Equal(t, "Title", rec.Title)
	assert.Equal(t, []string{"go"}, rec.Tags)
	assert.NotEmpty(t, rec.ID)
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(NewMemoryStore())
	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListForOwnerRequiresOwner(t *testing.T) {
	svc := NewService(NewMemoryStore())
	_, err := svc.ListForOwner(context.Background(), " ", "")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestPublicQuery(t *testing.T) {
	store := seededMemoryStore(t,
		NoteRecord{OwnerID: "a", Title: "Go links", Body: strings.Repeat("x", 250), Kind: KindLink},
		NoteRecord{OwnerID: "b", Title: "Go notes", Body: "short", Kind: KindNote},
		NoteRecord{OwnerID: "b", Title: "Rust", Body: "other", Kind: KindNote},
	)
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2024, 2, 3, 4, 5, 6, 0, time.FixedZone("X", 3600)) }

	res, err := svc.PublicQuery(context.Background(), "go", "", "bogus")
	require.NoError(t, err)
	assert.Equal(t, "all", res.Type)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "2024-02-03T03:05:06Z", res.Timestamp)
	assert.Equal(t, "Go notes", res.Results[0].Title)
	assert.Equal(t, "short", res.Results[0].Summary)
	assert.Equal(t, strings.Repeat("x", 200)+"...", res.Results[1].Summary)
	assert.Equal(t, []string{}, res.Results[1].Tags)

	res, err = svc.PublicQuery(context.Background(), "go", "1", "link")
	require.NoError(t, err)
	assert.Equal(t, "link", res.Type)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Go links", res.Results[0].Title)
}

func TestParsePublicLimit(t *testing.T) {
	assert.Equal(t, 10, parsePublicLimit(""))
	assert.Equal(t, 10, parsePublicLimit("abc"))
	assert.Equal(t, 10, parsePublicLimit("0"))
	assert.Equal(t, 7, parsePublicLimit("7"))
	assert.Equal(t, 50, parsePublicLimit("500"))
}
