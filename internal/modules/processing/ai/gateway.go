package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/second-brain/core/internal/config"
	"github.com/second-brain/core/internal/modules/content/note"
	"github.com/second-brain/core/internal/modules/processing/tags"
	"github.com/second-brain/core/internal/pkg/metrics"
	"github.com/second-brain/core/internal/pkg/textutil"
)

const (
	fallbackSummaryRunes = 300
	maxAITags            = 5
	maxKeyPoints         = 4

	opExtraction = "extraction"
	opSummarize  = "summarize"
	opChat       = "chat"
)

// ErrUnavailable is returned when no provider is configured.
var ErrUnavailable = errors.New("AI provider not configured")

// CapturedContent is the structured result of capturing a web page.
type CapturedContent struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags"`
	KeyPoints   []string `json:"keyPoints"`
	Content     string   `json:"content"`
	AIGenerated bool     `json:"aiGenerated"`
}

// Summary is the result of summarizing free text.
type Summary struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
	AIGenerated bool     `json:"aiGenerated"`
}

type extractionReply struct {
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags"`
	KeyPoints []string `json:"keyPoints"`
}

type summaryReply struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}

type Options struct {
	// Provider is the active provider; nil keeps the gateway offline.
	Provider *appcfg.AIProvider
	Timeout  time.Duration
	Logger   *zap.Logger
	// Generator overrides the provider-derived client.
	Generator Generator
}

// Gateway turns prompts into structured results and degrades to a
// deterministic fallback whenever the provider is absent or misbehaves.
type Gateway struct {
	gen Generator
	log *zap.Logger
}

// New builds a Gateway. A provider that cannot be turned into a client is
// logged and leaves the gateway offline.
func New(opts Options) *Gateway {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gateway{gen: opts.Generator, log: log}
	if g.gen == nil && opts.Provider != nil {
		gen, err := NewGenerator(opts.Provider, opts.Timeout)
		if err != nil {
			log.Warn("AI provider disabled", zap.String("provider", opts.Provider.ID), zap.Error(err))
		} else {
			g.gen = gen
			log.Info("AI provider enabled",
				zap.String("provider", opts.Provider.ID),
				zap.String("type", providerKind(opts.Provider.Type)))
		}
	}
	return g
}

// Enabled reports whether calls reach a remote model.
func (g *Gateway) Enabled() bool { return g.gen != nil }

// SummarizeForExtraction summarizes and tags a reduced web page. It always
// returns a complete result; Content is left for the caller.
func (g *Gateway) SummarizeForExtraction(ctx context.Context, title, metaDescription, text string) CapturedContent {
	fallback := CapturedContent{
		Title:     title,
		Summary:   fallbackExtractionSummary(title, metaDescription, text),
		Tags:      tags.OrDefault(tags.Extract(text, title)),
		KeyPoints: []string{},
	}

	raw, ok := g.generate(ctx, opExtraction, Request{
		System:          extractionSystemPrompt,
		Prompt:          buildExtractionPrompt(title, metaDescription, text),
		Temperature:     extractionTemperature,
		MaxOutputTokens: extractionMaxTokens,
	})
	if !ok {
		return fallback
	}

	reply, err := ParseStructured[extractionReply](raw, extractionSchema)
	if err != nil {
		g.unparseable(opExtraction, raw)
		return fallback
	}

	metrics.AIRequests.WithLabelValues(opExtraction, metrics.OutcomeSuccess).Inc()
	out := fallback
	out.AIGenerated = true
	if s := strings.TrimSpace(reply.Summary); s != "" {
		out.Summary = s
	}
	if t := cleanList(reply.Tags, maxAITags); len(t) > 0 {
		out.Tags = t
	}
	out.KeyPoints = cleanList(reply.KeyPoints, maxKeyPoints)
	return out
}

// SummarizeText condenses free text into a summary and key points.
func (g *Gateway) SummarizeText(ctx context.Context, text string) Summary {
	fallback := Summary{
		Summary:   textutil.Truncate(text, fallbackSummaryRunes),
		KeyPoints: []string{},
	}

	raw, ok := g.generate(ctx, opSummarize, Request{
		System:          summarizeSystemPrompt,
		Prompt:          buildSummarizePrompt(text),
		Temperature:     summarizeTemperature,
		MaxOutputTokens: summarizeMaxTokens,
	})
	if !ok {
		return fallback
	}

	reply, err := ParseStructured[summaryReply](raw, summarySchema)
	if err != nil {
		g.unparseable(opSummarize, raw)
		return fallback
	}

	metrics.AIRequests.WithLabelValues(opSummarize, metrics.OutcomeSuccess).Inc()
	out := Summary{
		Summary:     strings.TrimSpace(reply.Summary),
		KeyPoints:   cleanList(reply.KeyPoints, maxKeyPoints),
		AIGenerated: true,
	}
	if out.Summary == "" {
		out.Summary = textutil.Clip(text, fallbackSummaryRunes)
	}
	return out
}

// SummarizeForChat answers question from contextNotes only. It returns
// ErrUnavailable when offline and the transport error otherwise, so the
// caller can pick its own fallback.
func (g *Gateway) SummarizeForChat(ctx context.Context, contextNotes []note.NoteRecord, question string) (string, error) {
	if g.gen == nil {
		metrics.AIRequests.WithLabelValues(opChat, metrics.OutcomeUnavailable).Inc()
		return "", ErrUnavailable
	}
	text, err := g.call(ctx, opChat, Request{
		System:          chatSystemPrompt,
		Prompt:          buildChatPrompt(contextNotes, question),
		Temperature:     chatTemperature,
		MaxOutputTokens: chatMaxTokens,
	})
	if err != nil {
		return "", err
	}
	metrics.AIRequests.WithLabelValues(opChat, metrics.OutcomeSuccess).Inc()
	return strings.TrimSpace(text), nil
}

// generate runs one call and reports whether a reply is available.
func (g *Gateway) generate(ctx context.Context, op string, req Request) (string, bool) {
	if g.gen == nil {
		metrics.AIRequests.WithLabelValues(op, metrics.OutcomeUnavailable).Inc()
		return "", false
	}
	raw, err := g.call(ctx, op, req)
	return raw, err == nil
}

func (g *Gateway) call(ctx context.Context, op string, req Request) (string, error) {
	start := time.Now()
	raw, err := g.gen.Generate(ctx, req)
	metrics.AIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AIRequests.WithLabelValues(op, metrics.OutcomeError).Inc()
		g.log.Warn("AI request failed, using fallback", zap.String("operation", op), zap.Error(err))
		return "", err
	}
	return raw, nil
}

func (g *Gateway) unparseable(op, raw string) {
	metrics.AIRequests.WithLabelValues(op, metrics.OutcomeUnparseable).Inc()
	g.log.Warn("AI response is not valid JSON, using fallback",
		zap.String("operation", op),
		zap.String("response", textutil.Truncate(raw, 200)))
}

func fallbackExtractionSummary(title, metaDescription, text string) string {
	if metaDescription != "" {
		return metaDescription
	}
	if text != "" {
		return textutil.Clip(text, fallbackSummaryRunes) + "..."
	}
	return title
}

func cleanList(items []string, limit int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}
