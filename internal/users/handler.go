package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gorilla/mux"

	"taskforge/internal/auth"
)

// Handler exposes registration, the current-user endpoints, and the
// admin-only user management surface on top of auth.Store.
type Handler struct {
	Store  *auth.Store
	Logger *slog.Logger
}

// RegisterPublic mounts the one route that takes no bearer token. r is
// the root router, so the path is absolute.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/api/users", h.Create).Methods(http.MethodPost)
}

// Register mounts the authenticated user routes. r is the secured
// subrouter rooted at /api, so paths here are relative to that prefix.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/users", h.List).Methods(http.MethodGet)
	r.HandleFunc("/users/me", h.Me).Methods(http.MethodGet)
	r.HandleFunc("/users/me", h.UpdateMe).Methods(http.MethodPut)
	r.HandleFunc("/users/me/password", h.UpdateMyPassword).Methods(http.MethodPut)
	r.HandleFunc("/users/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/users/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/users/{id:[0-9]+}/password", h.UpdatePassword).Methods(http.MethodPut)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, auth.ErrEmailTaken):
		http.Error(w, "email already registered", http.StatusBadRequest)
	default:
		h.Logger.Error("user operation failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// requester returns the authenticated identity, or writes 401/403.
// adminOnly additionally requires the admin role.
func (h *Handler) requester(w http.ResponseWriter, r *http.Request, adminOnly bool) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}
	if adminOnly && !user.Role.IsAdmin() {
		http.Error(w, "not authorized", http.StatusForbidden)
		return nil, false
	}
	return user, true
}

type createRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "name, email and password are required", http.StatusBadRequest)
		return
	}
	u, err := h.Store.Create(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.Logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	writeJSON(w, u)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requester(w, r, true); !ok {
		return
	}
	list, err := h.Store.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if list == nil {
		list = []auth.User{}
	}
	writeJSON(w, list)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requester(w, r, false)
	if !ok {
		return
	}
	u, err := h.Store.GetByID(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, u)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requester(w, r, false)
	if !ok {
		return
	}
	var upd auth.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	// Roles are changed only by admins, own record included.
	if upd.Role != nil && !user.Role.IsAdmin() {
		http.Error(w, "not authorized to change role", http.StatusForbidden)
		return
	}
	u, err := h.Store.Update(r.Context(), user.ID, upd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, u)
}

type passwordRequest struct {
	NewPassword string `json:"new_password"`
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requester(w, r, false)
	if !ok {
		return
	}
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		http.Error(w, "new_password is required", http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdatePassword(r.Context(), user.ID, req.NewPassword); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "password updated"})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requester(w, r, true); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	u, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, u)
}

// Update is the admin update-by-id path. It can change any field
// including role, with no special case for the admin's own record.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requester(w, r, true); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var upd auth.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	u, err := h.Store.Update(r.Context(), id, upd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, u)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requester(w, r, true); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		http.Error(w, "new_password is required", http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdatePassword(r.Context(), id, req.NewPassword); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "password updated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requester(w, r, true)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if id == user.ID {
		http.Error(w, "cannot delete your own account", http.StatusBadRequest)
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.Logger.Info("user deleted", "user_id", id, "by", user.ID)
	writeJSON(w, map[string]string{"message": "user deleted"})
}
