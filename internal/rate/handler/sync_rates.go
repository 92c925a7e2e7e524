package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SyncRatesResponse struct {
	ExecID  string `json:"exec_id"`
	Applied int    `json:"applied" example:"160"`
}

// SyncRates godoc
// @Summary Sync rates from the rate feed
// @Description Pull the configured rate tables now instead of waiting for the scheduler
// @Tags Rates
// @Produce json
// @Success 200 {object} SyncRatesResponse
// @Failure 502 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /rates/sync [post]
func (h *Handler) SyncRates(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		writeError(w, http.StatusServiceUnavailable, "rate feed is not configured")
		return
	}

	execID := uuid.NewString()
	applied, err := h.syncer.Sync(r.Context(), execID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "SyncRates", "exec_id": execID}).Error("rate sync failed")
		writeError(w, http.StatusBadGateway, "rate sync failed")
		return
	}

	writeJSON(w, http.StatusOK, SyncRatesResponse{ExecID: execID, Applied: applied})
}
