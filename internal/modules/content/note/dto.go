package note

import "time"

type CreateNoteDTO struct {
	UserID string   `json:"userid"`
	Title  string   `json:"title"`
	Tags   []string `json:"tags"`
	Type   string   `json:"Type"`
	Des    string   `json:"des"`
}

// listedNote keeps the stored document field names the web client reads.
type listedNote struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userid"`
	Title     string    `json:"Title"`
	Tags      []string  `json:"tags"`
	Type      Kind      `json:"Type"`
	Des       string    `json:"des"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type noteResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Type        Kind      `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toListed(r *NoteRecord) listedNote {
	return listedNote{
		ID:        r.ID,
		UserID:    r.OwnerID,
		Title:     r.Title,
		Tags:      nonNil(r.Tags),
		Type:      r.Kind,
		Des:       r.Body,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toResponse(r *NoteRecord) noteResponse {
	return noteResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Body,
		Tags:        nonNil(r.Tags),
		Type:        r.Kind,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
