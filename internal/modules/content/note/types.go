package note

import (
	"context"
	"strings"
	"time"
)

// Kind classifies a captured record.
type Kind string

const (
	KindNote    Kind = "note"
	KindLink    Kind = "link"
	KindInsight Kind = "insight"
)

// ParseKind accepts note, link or insight in any case. An empty value is
// reported as not ok.
func ParseKind(raw string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindNote, KindLink, KindInsight:
		return k, true
	default:
		return "", false
	}
}

// NoteRecord is one stored note, link or insight.
type NoteRecord struct {
	ID        string
	OwnerID   string
	Title     string
	Body      string
	Tags      []string
	Kind      Kind
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Query selects records whose title, body or any tag contains one of Terms,
// case-insensitively. Results are newest first.
type Query struct {
	Terms   []string
	OwnerID string
	Limit   int
}

// ListQuery selects records for listings. Search is a single literal term
// matched like a Query term; an empty Search matches everything.
type ListQuery struct {
	OwnerID string
	Search  string
	Kind    Kind
	Limit   int
}

// SearchIndex finds records matching free-text terms.
type SearchIndex interface {
	Search(ctx context.Context, q Query) ([]NoteRecord, error)
}

// Store is the persistence collaborator behind the capture and query flows.
type Store interface {
	SearchIndex
	Create(ctx context.Context, rec *NoteRecord) error
	// FindByID returns (nil, nil) when no record has the id.
	FindByID(ctx context.Context, id string) (*NoteRecord, error)
	List(ctx context.Context, q ListQuery) ([]NoteRecord, error)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// matches reports whether rec contains any of the lowercase terms in its
// title, body or tags.
func matches(rec *NoteRecord, terms []string) bool {
	title := strings.ToLower(rec.Title)
	body := strings.ToLower(rec.Body)
	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(body, term) {
			return true
		}
		for _, tag := range rec.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				return true
			}
		}
	}
	return false
}

func lowerTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
