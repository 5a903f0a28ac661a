package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/holkiv/topupbot/internal/domain"
	"github.com/holkiv/topupbot/pkg/utils"
)

type Service interface {
	DailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)
}

type StatsHandler struct {
	statsService Service
}

func New(statsService Service) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

type dailyStatsResponse struct {
	Date         string `json:"date"`
	OrdersCount  int    `json:"orders_count"`
	TotalRevenue int64  `json:"total_revenue"`
	UniqueUsers  int    `json:"unique_users"`
}

func (h *StatsHandler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	stats, err := h.statsService.DailyStats(r.Context(), now)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dailyStatsResponse{
		Date:         now.Format("2006-01-02"),
		OrdersCount:  stats.OrdersCount,
		TotalRevenue: stats.TotalRevenue,
		UniqueUsers:  stats.UniqueUsers,
	})
}
