package handler

import (
	"net/http"
)

type GetCurrenciesResponse struct {
	Currencies []string `json:"currencies" example:"EUR,GBP,USD"`
}

// GetCurrencies godoc
// @Summary List known currencies
// @Description Retrieve every currency code the converter currently knows
// @Tags Conversion
// @Produce json
// @Success 200 {object} GetCurrenciesResponse
// @Router /currencies [get]
func (h *Handler) GetCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetCurrenciesResponse{
		Currencies: h.service.Currencies(),
	})
}
