package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fxconvert/internal/domain"
	"net/http"

	"github.com/sirupsen/logrus"
)

type Validator interface {
	ValidateCodes(from, to string) error
	ValidateRates(rates []domain.ConversionRate) error
}

type Service interface {
	Convert(from, to string, amount float64) (domain.Conversion, error)
	UpdateRates(ctx context.Context, rates []domain.ConversionRate) error
	Clear(ctx context.Context) error
	Currencies() []string
}

// Syncer triggers a rate feed synchronisation; nil when no feed is configured.
type Syncer interface {
	Sync(ctx context.Context, execID string) (int, error)
}

type Handler struct {
	validator Validator
	service   Service
	syncer    Syncer
}

func NewRateHandler(validator Validator, service Service, syncer Syncer) *Handler {
	return &Handler{validator: validator, service: service, syncer: syncer}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

// writeJSON encodes body before the status line goes out, so an unencodable
// value still gets an error response.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		logrus.WithError(err).Error("failed to encode response")
		writeError(w, http.StatusInternalServerError, "ups, couldn't encode the response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}
