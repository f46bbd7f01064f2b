package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const probeTimeout = 2 * time.Second

// Check probes one backing service.
type Check func(ctx context.Context) error

// RegisterRoutes mounts GET /healthz. Every check runs on each probe; any
// failure turns the status into "degraded" with a 503.
func RegisterRoutes(r gin.IRoutes, checks map[string]Check) {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		results := make(gin.H, len(names))
		for _, name := range names {
			ok := checks[name](ctx) == nil
			results[name] = ok
			if !ok {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"success": code == http.StatusOK,
			"status":  status,
			"checks":  results,
		})
	})
}
