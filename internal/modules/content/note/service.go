package note

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/second-brain/core/internal/pkg/apperr"
	"github.com/second-brain/core/internal/pkg/textutil"
)

const (
	defaultPublicLimit = 10
	maxPublicLimit     = 50
	publicSummaryRunes = 200
	publicTypeAll      = "all"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Store exposes the backing store, e.g. as the chat search index.
func (s *Service) Store() Store { return s.store }

type CreateInput struct {
	OwnerID string
	Title   string
	Body    string
	Tags    []string
	Kind    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*NoteRecord, error) {
	owner := strings.TrimSpace(in.OwnerID)
	title := strings.TrimSpace(in.Title)
	if owner == "" || title == "" {
		return nil, apperr.InvalidInput("User id is not found or Title is not provided")
	}

	kind := KindNote
	if strings.TrimSpace(in.Kind) != "" {
		parsed, ok := ParseKind(in.Kind)
		if !ok {
			return nil, apperr.InvalidInput("Type must be one of note, link, insight")
		}
		kind = parsed
	}

	rec := &NoteRecord{
		OwnerID: owner,
		Title:   title,
		Body:    in.Body,
		Tags:    normalizeTags(in.Tags),
		Kind:    kind,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, apperr.Internal("create note", err)
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (*NoteRecord, error) {
	rec, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInvalidInput {
			return nil, err
		}
		return nil, apperr.Internal("find note", err)
	}
	if rec == nil {
		return nil, apperr.NotFound("Note not found")
	}
	return rec, nil
}

// ListForOwner returns every note of owner, newest first, optionally
// narrowed by a search term.
func (s *Service) ListForOwner(ctx context.Context, ownerID, search string) ([]NoteRecord, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperr.InvalidInput("User ID is required")
	}
	recs, err := s.store.List(ctx, ListQuery{OwnerID: ownerID, Search: strings.TrimSpace(search)})
	if err != nil {
		return nil, apperr.Internal("list notes", err)
	}
	return recs, nil
}

type PublicResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Tags      []string  `json:"tags"`
	Type      Kind      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type PublicQueryResult struct {
	Query     string         `json:"query"`
	Type      string         `json:"type"`
	Results   []PublicResult `json:"results"`
	Count     int            `json:"count"`
	Timestamp string         `json:"timestamp"`
}

// PublicQuery searches the whole knowledge base. limit falls back to 10
// when missing or invalid and is capped at 50; kind outside
// note|link|insight means all kinds.
func (s *Service) PublicQuery(ctx context.Context, query, limit, kind string) (*PublicQueryResult, error) {
	query = strings.TrimSpace(query)
	lq := ListQuery{Search: query, Limit: parsePublicLimit(limit)}

	typeLabel := publicTypeAll
	if k, ok := ParseKind(kind); ok {
		lq.Kind = k
		typeLabel = string(k)
	}

	recs, err := s.store.List(ctx, lq)
	if err != nil {
		return nil, apperr.Internal("query knowledge base", err)
	}

	results := make([]PublicResult, 0, len(recs))
	for _, r := range recs {
		results = append(results, PublicResult{
			ID:        r.ID,
			Title:     r.Title,
			Summary:   textutil.Truncate(r.Body, publicSummaryRunes),
			Tags:      nonNil(r.Tags),
			Type:      r.Kind,
			CreatedAt: r.CreatedAt,
		})
	}
	return &PublicQueryResult{
		Query:     query,
		Type:      typeLabel,
		Results:   results,
		Count:     len(results),
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}, nil
}

func parsePublicLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return defaultPublicLimit
	}
	if n > maxPublicLimit {
		return maxPublicLimit
	}
	return n
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
