package capture

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/second-brain/core/internal/modules/processing/ai"
	"github.com/second-brain/core/internal/modules/processing/htmltext"
	"github.com/second-brain/core/internal/pkg/apperr"
	"github.com/second-brain/core/internal/pkg/metrics"
)

// Summarizer is the part of the AI gateway the pipeline needs.
type Summarizer interface {
	SummarizeForExtraction(ctx context.Context, title, metaDescription, text string) ai.CapturedContent
}

// Service runs validate, fetch, reduce, summarize and assemble for one URL.
type Service struct {
	fetcher    Fetcher
	summarizer Summarizer
	log        *zap.Logger
}

func NewService(fetcher Fetcher, summarizer Summarizer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{fetcher: fetcher, summarizer: summarizer, log: log}
}

// Extract captures rawURL. Only validation and fetch failures are errors;
// AI trouble degrades to the non-AI result.
func (s *Service) Extract(ctx context.Context, rawURL string) (ai.CapturedContent, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		metrics.Extractions.WithLabelValues("invalid").Inc()
		return ai.CapturedContent{}, err
	}

	html, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		metrics.Extractions.WithLabelValues("fetch_failed").Inc()
		s.log.Warn("fetch failed", zap.String("url", target), zap.Error(err))
		if apperr.KindOf(err) == apperr.KindInternal {
			err = apperr.UpstreamFetchFailed(fetchFailedMessage, err)
		}
		return ai.CapturedContent{}, err
	}

	page := htmltext.Reduce(html)
	out := s.summarizer.SummarizeForExtraction(ctx, page.Title, page.MetaDescription, page.PlainText)
	out.Title = page.Title
	out.Content = page.Preview()

	result := "fallback"
	if out.AIGenerated {
		result = "ai"
	}
	metrics.Extractions.WithLabelValues(result).Inc()
	return out, nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperr.InvalidInput("URL is required")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", apperr.InvalidInput("Invalid URL format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperr.InvalidInput("Invalid URL format")
	}
	return u.String(), nil
}
