package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database"
)

// HealthResponse is the /health payload. Database holds "ok" or the
// failure detail; Status degrades with it.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}

// HealthController reports process liveness and store reachability.
type HealthController struct {
	db      *database.Database
	version string
	started time.Time
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
		started: time.Now(),
	}
}

func (h *HealthController) Status(c *gin.Context) {
	dbState, reachable := h.pingDatabase()

	status := "ok"
	code := http.StatusOK
	if !reachable {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:   status,
		Version:  h.version,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Database: dbState,
	})
}

// pingDatabase checks store reachability. Running without a database
// is a valid configuration, not a degradation.
func (h *HealthController) pingDatabase() (string, bool) {
	if h.db == nil {
		return "not configured", true
	}

	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return "error: " + err.Error(), false
	}
	if err := sqlDB.Ping(); err != nil {
		return "error: " + err.Error(), false
	}

	return "ok", true
}
