package handler

import (
	"errors"
	"fxconvert/internal/domain"
	"fxconvert/internal/rate"
	"math"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

type LegResponse struct {
	From string  `json:"from" example:"USD"`
	To   string  `json:"to" example:"EUR"`
	Rate float64 `json:"rate" example:"0.9"`
}

type ConvertResponse struct {
	From   string        `json:"from" example:"USD"`
	To     string        `json:"to" example:"GBP"`
	Amount float64       `json:"amount" example:"100"`
	Result float64       `json:"result" example:"72"`
	Rate   float64       `json:"rate" example:"0.72"`
	Path   []string      `json:"path" example:"USD,EUR,GBP"`
	Legs   []LegResponse `json:"legs"`
}

// Convert godoc
// @Summary Convert an amount
// @Description Convert an amount between two currencies, chaining known rates when no direct rate exists
// @Tags Conversion
// @Produce json
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Param amount query number true "Amount in the source currency"
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Router /convert [get]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := rate.NormalizeCode(query.Get("from"))
	to := rate.NormalizeCode(query.Get("to"))

	if err := h.validator.ValidateCodes(from, to); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := strconv.ParseFloat(query.Get("amount"), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		writeError(w, http.StatusBadRequest, "amount must be a finite number")
		return
	}

	conv, err := h.service.Convert(from, to, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCurrencyNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrNoConversionPath):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			msg := "ups, couldn't convert this time"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "Convert", "from": from, "to": to}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}
	if math.IsInf(conv.Result, 0) || math.IsInf(conv.Rate, 0) {
		writeError(w, http.StatusUnprocessableEntity, "conversion result is out of range")
		return
	}

	legs := make([]LegResponse, 0, len(conv.Legs))
	for _, l := range conv.Legs {
		legs = append(legs, LegResponse{From: l.From, To: l.To, Rate: l.Rate})
	}
	writeJSON(w, http.StatusOK, ConvertResponse{
		From:   from,
		To:     to,
		Amount: conv.Amount,
		Result: conv.Result,
		Rate:   conv.Rate,
		Path:   conv.Path(),
		Legs:   legs,
	})
}
