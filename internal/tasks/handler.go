package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gorilla/mux"

	"taskforge/internal/auth"
)

type Handler struct {
	Service *Service
	Logger  *slog.Logger
}

// Register mounts the task routes. r is the secured subrouter rooted at
// /api, so paths here are relative to that prefix.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/tasks", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/tasks", h.List).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, ErrMemberNotFound):
		http.Error(w, "member not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "not authorized", http.StatusForbidden)
	default:
		h.Logger.Error("task operation failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if in.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	t, err := h.Service.Create(r.Context(), user, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, t)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var memberFilter *int64
	if v := r.URL.Query().Get("member_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid member_id", http.StatusBadRequest)
			return
		}
		memberFilter = &id
	}
	list, err := h.Service.List(r.Context(), user, memberFilter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if list == nil {
		list = []Task{}
	}
	writeJSON(w, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	t, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var upd Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	t, err := h.Service.Update(r.Context(), user, id, upd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), user, id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "task deleted"})
}
