package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/second-brain/core/internal/modules/content/note"
	"github.com/second-brain/core/internal/modules/processing/ai"
	"github.com/second-brain/core/internal/pkg/apperr"
	"github.com/second-brain/core/internal/pkg/metrics"
	"github.com/second-brain/core/internal/pkg/textutil"
)

const (
	maxSources    = 5
	minTermRunes  = 3
	snippetRunes  = 100
	noMatchAnswer = "I couldn't find any relevant notes in your knowledge base. Try adding more content or rephrasing your question."
)

// SourceRef points at a note that backed an answer.
type SourceRef struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Snippet string    `json:"snippet"`
	Kind    note.Kind `json:"type"`
}

type ChatAnswer struct {
	ResponseText string      `json:"response"`
	Sources      []SourceRef `json:"sources"`
	AIGenerated  bool        `json:"aiGenerated"`
}

// Answerer composes a grounded answer. Implemented by ai.Gateway.
type Answerer interface {
	SummarizeForChat(ctx context.Context, contextNotes []note.NoteRecord, question string) (string, error)
}

type Service struct {
	index    note.SearchIndex
	answerer Answerer
	log      *zap.Logger
}

func NewService(index note.SearchIndex, answerer Answerer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{index: index, answerer: answerer, log: log}
}

// Answer finds up to five matching notes, newest first, and answers from
// them. Without a usable AI reply the answer is a fixed template.
func (s *Service) Answer(ctx context.Context, question, ownerID string) (ChatAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return ChatAnswer{}, apperr.InvalidInput("Message is required")
	}

	matches := []note.NoteRecord{}
	if terms := Tokenize(question); len(terms) > 0 {
		found, err := s.index.Search(ctx, note.Query{
			Terms:   terms,
			OwnerID: strings.TrimSpace(ownerID),
			Limit:   maxSources,
		})
		if err != nil {
			return ChatAnswer{}, apperr.Internal("search notes", err)
		}
		matches = found
	}
	if len(matches) > maxSources {
		matches = matches[:maxSources]
	}

	answer := ChatAnswer{Sources: sourcesFor(matches)}

	text, err := s.answerer.SummarizeForChat(ctx, matches, question)
	switch {
	case err == nil && text != "":
		answer.ResponseText = text
		answer.AIGenerated = true
		metrics.ChatAnswers.WithLabelValues("ai").Inc()
		return answer, nil
	case err != nil && !errors.Is(err, ai.ErrUnavailable):
		s.log.Warn("chat answer falls back to template", zap.Error(err))
	}

	answer.ResponseText = templateAnswer(len(matches))
	metrics.ChatAnswers.WithLabelValues("template").Inc()
	return answer, nil
}

// Tokenize lowercases question, splits it on whitespace and keeps tokens
// longer than two runes.
func Tokenize(question string) []string {
	fields := strings.Fields(strings.ToLower(question))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= minTermRunes {
			out = append(out, f)
		}
	}
	return out
}

func templateAnswer(n int) string {
	if n == 0 {
		return noMatchAnswer
	}
	noun := "notes"
	if n == 1 {
		noun = "note"
	}
	return fmt.Sprintf("I found %d relevant %s related to your question. Here are the key insights from your knowledge base.", n, noun)
}

func sourcesFor(matches []note.NoteRecord) []SourceRef {
	out := make([]SourceRef, 0, len(matches))
	for _, m := range matches {
		out = append(out, SourceRef{
			ID:      m.ID,
			Title:   m.Title,
			Snippet: textutil.Truncate(m.Body, snippetRunes),
			Kind:    m.Kind,
		})
	}
	return out
}
