package capture

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/second-brain/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type extractDTO struct {
	URL string `json:"url"`
}

// RegisterRoutes mounts POST /extract behind the given middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.extract)
	rg.POST("/extract", handlers...)
}

func (h *Handler) extract(c *gin.Context) {
	var dto extractDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "URL is required")
		return
	}

	out, err := h.svc.Extract(c.Request.Context(), dto.URL)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, gin.H{
		"title":       out.Title,
		"summary":     out.Summary,
		"tags":        out.Tags,
		"keyPoints":   out.KeyPoints,
		"content":     out.Content,
		"aiGenerated": out.AIGenerated,
	})
}
