package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-rituals/internal/core/services"
)

type StatsHandler struct {
	store *services.TrackingStore
	now   func() time.Time
}

func NewStatsHandler(store *services.TrackingStore) *StatsHandler {
	return &StatsHandler{store: store, now: time.Now}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/weekly", h.GetWeeklyStats)
	r.GET("/snapshot", h.GetSnapshot)
}

func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = h.now().Format(domain.DateLayout)
	}

	stats, err := h.store.WeeklyStats(date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidDateMessage})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}
