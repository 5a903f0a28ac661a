package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	statshandlers "github.com/holkiv/topupbot/internal/handlers/stats"
	"github.com/holkiv/topupbot/pkg/utils"
)

type StatsHandler interface {
	GetDailyStats(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	StatsHandler StatsHandler
}

func New(stats statshandlers.Service) *Handlers {
	return &Handlers{
		StatsHandler: statshandlers.New(stats),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "ok"})
	})
	r.Route("/api/stats", func(r chi.Router) {
		r.Get("/daily", h.StatsHandler.GetDailyStats)
	})

	return r
}
