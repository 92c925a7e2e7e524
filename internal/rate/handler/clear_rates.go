package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// ClearRates godoc
// @Summary Clear configuration
// @Description Forget every currency and rate
// @Tags Rates
// @Success 204
// @Failure 500 {object} errorResponse
// @Router /rates [delete]
func (h *Handler) ClearRates(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		logrus.WithError(err).WithField("handler", "ClearRates").Error("rates weren't cleared")
		writeError(w, http.StatusInternalServerError, "failed to clear rates")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
