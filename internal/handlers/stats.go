package handlers

import (
	"strconv"

	"campus-availability-server/internal/store"
	"campus-availability-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 50
)

// StatsHandler serves dashboard aggregates.
type StatsHandler struct {
	Store *store.Store
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(st *store.Store) *StatsHandler {
	return &StatsHandler{Store: st}
}

// Stats returns availability and appointment counters.
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.Store.Stats(c.Request.Context(), h.Store.Now().Format(dateLayout))
	if err != nil {
		respondStoreError(c, err, "compute stats")
		return
	}
	utils.Success(c, "Stats fetched successfully", stats)
}

// Activity returns the recent activity feed.
func (h *StatsHandler) Activity(c *gin.Context) {
	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = min(n, maxActivityLimit)
	}

	activity, err := h.Store.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		respondStoreError(c, err, "fetch activity")
		return
	}
	utils.Success(c, "Activity fetched successfully", activity)
}
