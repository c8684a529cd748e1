package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/gorilla/mux"

	"taskforge/internal/auth"
	"taskforge/internal/notes"
	"taskforge/internal/tasks"
	"taskforge/internal/users"
)

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	userStore *auth.Store,
	taskSvc *tasks.Service,
	noteSvc *notes.Service,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public routes: login and registration take no bearer token.
	r.Handle("/api/auth/login", &auth.LoginHandler{Service: authSvc, Logger: logger}).Methods(http.MethodPost)

	userHandler := &users.Handler{Store: userStore, Logger: logger}
	userHandler.RegisterPublic(r)

	// Everything below requires a valid token.
	secured := r.PathPrefix("/api").Subrouter()
	secured.Use(mux.MiddlewareFunc(auth.JWTMiddleware(authSvc)))

	userHandler.Register(secured)
	(&tasks.Handler{Service: taskSvc, Logger: logger}).Register(secured)
	(&notes.Handler{Service: noteSvc, Logger: logger}).Register(secured)

	return withCORS(requestLogger(logger)(r))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
