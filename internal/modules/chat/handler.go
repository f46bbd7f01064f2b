package chat

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

type chatDTO struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// RegisterRoutes mounts POST /chat behind the given middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.chat)
	rg.POST("/chat", handlers...)
}

func (h *Handler) chat(c *gin.Context) {
	var dto chatDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Message is required")
		return
	}

	answer, err := h.svc.Answer(c.Request.Context(), dto.Message, dto.UserID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, gin.H{
		"response":    answer.ResponseText,
		"sources":     answer.Sources,
		"aiGenerated": answer.AIGenerated,
	})
}
