package api

import (
	"net/http"

	_ "fxconvert/docs"
	"fxconvert/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler, metricsHandler http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)
	if metricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/convert", rateHandler.Convert)
		r.Get("/currencies", rateHandler.GetCurrencies)
		r.Put("/rates", rateHandler.UpdateRates)
		r.Delete("/rates", rateHandler.ClearRates)
		r.Post("/rates/sync", rateHandler.SyncRates)
	})
	return router
}
