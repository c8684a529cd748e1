package users

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"github.com/gorilla/mux"

	"taskforge/internal/auth"
)

// The paths under test are all rejected before any store access, so a
// store without a live database is a safe stand-in.
func newTestRouter() http.Handler {
	h := &Handler{
		Store:  auth.NewStore(nil),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	r := mux.NewRouter()
	h.RegisterPublic(r)
	sub := r.PathPrefix("/api").Subrouter()
	h.Register(sub)
	return r
}

func do(t *testing.T, handler http.Handler, method, path, body string, u *auth.User) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if u != nil {
		req = req.WithContext(auth.WithUser(req.Context(), u))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSelfRoleChangeForbiddenForNonAdmin(t *testing.T) {
	handler := newTestRouter()
	member := &auth.User{ID: 3, Role: auth.RoleDeveloper}

	rec := do(t, handler, http.MethodPut, "/api/users/me", `{"role":"admin"}`, member)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	// Smuggling the role in next to a legitimate field changes nothing.
	rec = do(t, handler, http.MethodPut, "/api/users/me", `{"name":"Eve","role":"admin"}`, member)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAdminOnlyRoutesRejectMembers(t *testing.T) {
	handler := newTestRouter()
	member := &auth.User{ID: 3, Role: auth.RoleMember}
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/5"},
		{http.MethodPut, "/api/users/5"},
		{http.MethodDelete, "/api/users/5"},
		{http.MethodPut, "/api/users/5/password"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := do(t, handler, tc.method, tc.path, "", member)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	handler := newTestRouter()
	admin := &auth.User{ID: 9, Role: auth.RoleAdmin}

	rec := do(t, handler, http.MethodDelete, "/api/users/9", "", admin)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	handler := newTestRouter()
	rec := do(t, handler, http.MethodGet, "/api/users/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
