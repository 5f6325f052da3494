package api

import "net/http"

const DefaultAllowedOrigin = "http://localhost:3000"

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("POST /api/report-incident", h.ReportIncident)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	origin := h.AllowedOrigin
	if origin == "" {
		origin = DefaultAllowedOrigin
	}
	return withCORS(origin, mux)
}

func withCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
