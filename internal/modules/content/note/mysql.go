package note

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/second-brain/core/internal/models"
)

// SQLStore keeps notes in the gorm "notes" table.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, rec *NoteRecord) error {
	m := models.NoteModel{
		OwnerID: rec.OwnerID,
		Title:   rec.Title,
		Body:    rec.Body,
		Tags:    models.TagList(append([]string{}, rec.Tags...)),
		Kind:    string(rec.Kind),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	rec.ID = m.ID
	rec.CreatedAt = m.CreatedAt
	rec.UpdatedAt = m.UpdatedAt
	return nil
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*NoteRecord, error) {
	var m models.NoteModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find note %s: %w", id, err)
	}
	rec := recordFromModel(m)
	return &rec, nil
}

func (s *SQLStore) Search(ctx context.Context, q Query) ([]NoteRecord, error) {
	terms := lowerTerms(q.Terms)
	if len(terms) == 0 {
		return []NoteRecord{}, nil
	}

	tx := s.db.WithContext(ctx).Model(&models.NoteModel{})
	if q.OwnerID != "" {
		tx = tx.Where("owner_id = ?", q.OwnerID)
	}
	cond, args := likeAny(terms)
	tx = tx.Where(cond, args...)
	return s.find(tx, q.Limit)
}

func (s *SQLStore) List(ctx context.Context, q ListQuery) ([]NoteRecord, error) {
	tx := s.db.WithContext(ctx).Model(&models.NoteModel{})
	if q.OwnerID != "" {
		tx = tx.Where("owner_id = ?", q.OwnerID)
	}
	if q.Kind != "" {
		tx = tx.Where("kind = ?", string(q.Kind))
	}
	if terms := lowerTerms([]string{q.Search}); len(terms) > 0 {
		cond, args := likeAny(terms)
		tx = tx.Where(cond, args...)
	}
	return s.find(tx, q.Limit)
}

func (s *SQLStore) find(tx *gorm.DB, limit int) ([]NoteRecord, error) {
	tx = tx.Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []models.NoteModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	out := make([]NoteRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, recordFromModel(m))
	}
	return out, nil
}

// likeAny ORs a case-insensitive substring match of every term over title,
// body and the serialized tag list.
func likeAny(terms []string) (string, []interface{}) {
	parts := make([]string, 0, len(terms)*3)
	args := make([]interface{}, 0, len(terms)*3)
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		parts = append(parts, "LOWER(title) LIKE ?", "LOWER(body) LIKE ?", "LOWER(tags) LIKE ?")
		args = append(args, pattern, pattern, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func recordFromModel(m models.NoteModel) NoteRecord {
	return NoteRecord{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Title:     m.Title,
		Body:      m.Body,
		Tags:      append([]string{}, m.Tags...),
		Kind:      Kind(m.Kind),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
