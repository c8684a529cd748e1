package notes

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

// Register mounts the note routes. r is the secured subrouter rooted at
// /api, so paths here are relative to that prefix.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/notes", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/notes", h.ListMine).Methods(http.MethodGet)
	r.HandleFunc("/notes/task/{taskID:[0-9]+}", h.ListForTask).Methods(http.MethodGet)
	r.HandleFunc("/notes/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoteNotFound):
		http.Error(w, "note not found", http.StatusNotFound)
	case errors.Is(err, ErrTaskNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "not authorized", http.StatusForbidden)
	default:
		h.Logger.Error("note operation failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type createRequest struct {
	Content string `json:"content"`
	TaskID  int64  `json:"task_id"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if req.Content == "" || req.TaskID == 0 {
		http.Error(w, "content and task_id are required", http.StatusBadRequest)
		return
	}
	n, err := h.Service.Create(r.Context(), user, req.TaskID, req.Content)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, n)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	list, err := h.Service.ListVisible(r.Context(), user)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if list == nil {
		list = []Note{}
	}
	writeJSON(w, list)
}

func (h *Handler) ListForTask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	taskID, err := strconv.ParseInt(mux.Vars(r)["taskID"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	list, err := h.Service.ListForTask(r.Context(), user, taskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if list == nil {
		list = []Note{}
	}
	writeJSON(w, list)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), user, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
