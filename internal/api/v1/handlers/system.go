package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	apierrors "videomasa/internal/api/errors"
	"videomasa/internal/api/middleware"
	"videomasa/internal/api/v1/dto"
	"videomasa/internal/api/v1/services"
	"videomasa/internal/app/model"
)

// SystemHandler serves liveness, shutdown and history endpoints
type SystemHandler struct {
	lifecycle    services.Lifecycle
	history      services.HistoryService
	historyLimit int
}

// NewSystemHandler creates a new system handler. history may be nil when the
// history database is disabled.
func NewSystemHandler(lifecycle services.Lifecycle, history services.HistoryService, historyLimit int) *SystemHandler {
	return &SystemHandler{
		lifecycle:    lifecycle,
		history:      history,
		historyLimit: historyLimit,
	}
}

// Heartbeat handles POST /heartbeat
func (h *SystemHandler) Heartbeat(c *gin.Context) {
	h.lifecycle.Beat()
	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Shutdown handles POST /shutdown. The response is written before the
// server starts draining.
func (h *SystemHandler) Shutdown(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
	h.lifecycle.Shutdown()
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Unix(),
	})
}

// History handles GET /history
func (h *SystemHandler) History(c *gin.Context) {
	if h.history == nil {
		middleware.HandleError(c, apierrors.NewNotFoundMessage("History is disabled"))
		return
	}

	limit := h.historyLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			middleware.HandleError(c, apierrors.NewValidationError("Validation failed", map[string]string{"limit": "must be a positive integer"}))
			return
		}
		limit = n
	}

	records, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(records, func(t model.Transcription, _ int) dto.HistoryEntry {
		return dto.HistoryEntry{
			ID:          t.ID,
			JobID:       t.JobID,
			Source:      t.Source,
			Title:       t.Title,
			Model:       t.Model,
			Transcript:  t.Transcript,
			Timestamped: t.Timestamped,
			CreatedAt:   t.CreatedAt,
		}
	}))
}
