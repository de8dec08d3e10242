package handler

import (
	"net/http"
	"strings"
	"time"

	"chatmart/internal/middleware"
	"chatmart/internal/model"
	"chatmart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// StatisticsHandler serves chart data.
type StatisticsHandler struct {
	service service.StatisticsService
	logger  zerolog.Logger
}

// NewStatisticsHandler creates a new statistics handler.
func NewStatisticsHandler(service service.StatisticsService, logger zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		service: service,
		logger:  logger.With().Str("handler", "statistics").Logger(),
	}
}

// Revenue handles GET /admin/statistics/revenue?start=&end= requests.
func (h *StatisticsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Revenue(r.Context(), rng)
	if err != nil {
		writeServiceError(w, err, "failed to compute revenue", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// UserQuantities handles GET /admin/statistics/{userId}. Only paid orders count.
func (h *StatisticsHandler) UserQuantities(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	stats, err := h.service.UserQuantities(r.Context(), chi.URLParam(r, "userId"), rng, true)
	if err != nil {
		writeServiceError(w, err, "failed to compute statistics", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// MyQuantities handles GET /userorders/statistics for the bearer-authenticated caller.
func (h *StatisticsHandler) MyQuantities(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}

	stats, err := h.service.UserQuantities(r.Context(), profile.UserID, model.DateRange{}, false)
	if err != nil {
		writeServiceError(w, err, "failed to compute statistics", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// dateRange reads the optional start and end query parameters (YYYY-MM-DD).
// The filter applies only when both are present.
func (h *StatisticsHandler) dateRange(w http.ResponseWriter, r *http.Request) (model.DateRange, bool) {
	q := r.URL.Query()
	startRaw, endRaw := strings.TrimSpace(q.Get("start")), strings.TrimSpace(q.Get("end"))
	if startRaw == "" || endRaw == "" {
		return model.DateRange{}, true
	}

	start, err := time.Parse(time.DateOnly, startRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD", h.logger)
		return model.DateRange{}, false
	}
	end, err := time.Parse(time.DateOnly, endRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD", h.logger)
		return model.DateRange{}, false
	}
	return model.DateRange{Start: start, End: end}, true
}
