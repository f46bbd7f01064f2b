package note

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

// RouteMiddleware is applied to single routes: Write guards POST /note and
// PublicRead wraps the public query.
type RouteMiddleware struct {
	Write      []gin.HandlerFunc
	PublicRead []gin.HandlerFunc
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...RouteMiddleware) {
	var m RouteMiddleware
	if len(mw) > 0 {
		m = mw[0]
	}

	notes := rg.Group("/note")
	notes.GET("", h.list)
	notes.POST("", chain(m.Write, h.create)...)
	notes.GET("/:id", h.getByID)

	rg.GET("/public/brain/query", chain(m.PublicRead, h.publicQuery)...)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(append([]gin.HandlerFunc{}, mw...), h)
}

func (h *Handler) list(c *gin.Context) {
	recs, err := h.svc.ListForOwner(c.Request.Context(), c.Query("userid"), c.Query("search"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	items := make([]listedNote, len(recs))
	for i := range recs {
		items[i] = toListed(&recs[i])
	}
	response.OK(c, gin.H{"notes": items})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateNoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), CreateInput{
		OwnerID: dto.UserID,
		Title:   dto.Title,
		Body:    dto.Des,
		Tags:    dto.Tags,
		Kind:    dto.Type,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"message": "note is added", "id": rec.ID})
}

func (h *Handler) getByID(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"note": toResponse(rec)})
}

func (h *Handler) publicQuery(c *gin.Context) {
	res, err := h.svc.PublicQuery(c.Request.Context(), c.Query("q"), c.Query("limit"), c.Query("type"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, gin.H{
		"query":     res.Query,
		"type":      res.Type,
		"results":   res.Results,
		"count":     res.Count,
		"timestamp": res.Timestamp,
	})
}
