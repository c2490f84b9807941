package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lpxcollect/lpx_api/internal/repository"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// AdminStatsHandler serves cross-platform totals for the back-office
// dashboard.
type AdminStatsHandler struct {
	statsRepo *repository.StatsRepository
}

// NewAdminStatsHandler constructs an AdminStatsHandler.
func NewAdminStatsHandler(statsRepo *repository.StatsRepository) *AdminStatsHandler {
	return &AdminStatsHandler{statsRepo: statsRepo}
}

// GetPlatformStats handles GET /v1/admin/stats
func (h *AdminStatsHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.statsRepo.GetPlatformStats()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch platform statistics")
		return
	}

	utils.Success(c, 200, "Platform statistics retrieved successfully", stats)
}
