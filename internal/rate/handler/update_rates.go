package handler

import (
	"encoding/json"
	"errors"
	"fxconvert/internal/domain"
	"fxconvert/internal/rate"
	"net/http"

	"github.com/sirupsen/logrus"
)

const maxUpdateBody = 1 << 20

type RateRequest struct {
	Base  string  `json:"base" example:"USD"`
	Quote string  `json:"quote" example:"EUR"`
	Value float64 `json:"value" example:"0.9"`
}

type UpdateRatesRequest struct {
	Rates []RateRequest `json:"rates"`
}

// UpdateRates godoc
// @Summary Update rates
// @Description Store a batch of rates; each rate also defines its reciprocal. The batch is applied atomically.
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body UpdateRatesRequest true "Rates to store"
// @Success 204
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates [put]
func (h *Handler) UpdateRates(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req UpdateRatesRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rates := make([]domain.ConversionRate, 0, len(req.Rates))
	for _, rr := range req.Rates {
		rates = append(rates, domain.ConversionRate{
			Base:  rate.NormalizeCode(rr.Base),
			Quote: rate.NormalizeCode(rr.Quote),
			Value: rr.Value,
		})
	}

	if err := h.validator.ValidateRates(rates); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateRates(r.Context(), rates); err != nil {
		if errors.Is(err, domain.ErrInvalidRate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "UpdateRates", "rates": len(rates)}).Error("rates weren't updated")
		writeError(w, http.StatusInternalServerError, "failed to update rates")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
