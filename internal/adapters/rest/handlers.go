package rest

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/port"
)

// StatusHandler отдает служебную информацию о сервисе: живость и статистику
// по собранным данным.
type StatusHandler struct {
	storage port.CarStoragePort
	logger  port.LoggerPort
	lastRun atomic.Pointer[domain.CrawlStats]
}

func NewStatusHandler(storage port.CarStoragePort, logger port.LoggerPort) *StatusHandler {
	return &StatusHandler{
		storage: storage,
		logger:  logger,
	}
}

// SetLastRun запоминает итоги последнего прохода для /stats.
func (h *StatusHandler) SetLastRun(stats *domain.CrawlStats) {
	h.lastRun.Store(stats)
}

func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *StatusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.storage.CountCars(r.Context())
	if err != nil {
		h.logger.Error("Failed to count cars for stats", err, nil)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read storage"})
		return
	}

	resp := statsResponse{TotalCars: total}
	if stats := h.lastRun.Load(); stats != nil {
		resp.LastRun = &lastRunDTO{
			RunID:          stats.RunID.String(),
			PagesProcessed: stats.PagesProcessed,
			LinksFound:     stats.LinksFound,
			NewLinks:       stats.NewLinks,
			Saved:          stats.Saved,
			Failed:         stats.Failed,
			StartedAt:      stats.StartedAt,
			FinishedAt:     stats.FinishedAt,
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
