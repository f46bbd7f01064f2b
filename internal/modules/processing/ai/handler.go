package ai

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/second-brain/core/internal/pkg/response"
)

type Handler struct {
	gw  *Gateway
	log *zap.Logger
}

func NewHandler(gw *Gateway, log *zap.Logger) *Handler {
	return &Handler{gw: gw, log: log}
}

type summarizeDTO struct {
	Text string `json:"text"`
}

// RegisterRoutes mounts POST /summarize behind the given middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.summarize)
	rg.POST("/summarize", handlers...)
}

func (h *Handler) summarize(c *gin.Context) {
	var dto summarizeDTO
	if err := c.ShouldBindJSON(&dto); err != nil || strings.TrimSpace(dto.Text) == "" {
		response.BadRequest(c, "Text content is required for summarization")
		return
	}

	s := h.gw.SummarizeText(c.Request.Context(), dto.Text)
	response.OK(c, gin.H{
		"summary":     s.Summary,
		"keyPoints":   s.KeyPoints,
		"aiGenerated": s.AIGenerated,
	})
}
