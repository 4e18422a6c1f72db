package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	m "capm.service/models"
)

const (
	DefaultAddr = ":8080"
)

func GetHttpServer(sc ServiceContext) *http.Server {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           int(12 * time.Hour / time.Second),
	}))

	router.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) { ping(w, r, sc) })
	router.Post("/api/analysis", func(w http.ResponseWriter, r *http.Request) { runAnalysis(w, r, sc) })
	router.Post("/api/symbols/{symbol}/sync", func(w http.ResponseWriter, r *http.Request) { syncSymbol(w, r, sc) })

	server := &http.Server{
		Addr:           DefaultAddr,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   2 * time.Minute, // a cold run fetches every series from the provider
		MaxHeaderBytes: 1 << 20,
	}

	return server
}

func ping(w http.ResponseWriter, _ *http.Request, sc ServiceContext) {
	if err := sc.PostgresConnection.Ping(sc.Context); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	message := "pong"
	writeJSON(w, http.StatusOK, m.GetServiceResponseOk(&message))
}

func runAnalysis(w http.ResponseWriter, r *http.Request, sc ServiceContext) {
	var req m.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := sc.RunAnalysis(req)
	if err != nil {
		writeError(w, analysisStatusCode(err), err)
		return
	}

	writeJSON(w, http.StatusOK, m.GetServiceResponseOk(res))
}

func syncSymbol(w http.ResponseWriter, r *http.Request, sc ServiceContext) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, errors.New("symbol is required"))
		return
	}

	lastRefreshed, err := sc.SyncSymbolTimeSeriesData(symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	res := m.SyncResponse{
		Symbol:        symbol,
		LastRefreshed: lastRefreshed.Format(time.DateOnly),
	}
	writeJSON(w, http.StatusOK, m.GetServiceResponseOk(&res))
}

func analysisStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientData), errors.Is(err, ErrEmptyPortfolio):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, m.GetServiceResponseError(err.Error()))
}
