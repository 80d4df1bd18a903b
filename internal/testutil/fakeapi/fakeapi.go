// Package fakeapi runs an in-process stand-in for the dashboard REST API.
// Tests register users and tenant themes, point a client at URL, and then
// inspect what the client sent.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/motogestor/dashclient/internal/client/models"
)

type account struct {
	password string
	token    string
	user     models.User
}

type Server struct {
	URL string

	srv *httptest.Server

	mu          sync.Mutex
	accounts    map[string]account
	byToken     map[string]models.User
	themes      map[int64]models.TenantTheme
	meStatus    int
	themeStatus int
	themeHang   chan struct{}
	calls       map[string]int
	headers     map[string]http.Header
}

// New starts a server and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		accounts: make(map[string]account),
		byToken:  make(map[string]models.User),
		themes:   make(map[int64]models.TenantTheme),
		calls:    make(map[string]int),
		headers:  make(map[string]http.Header),
	}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.me).Methods(http.MethodGet)
	r.HandleFunc("/me", s.me).Methods(http.MethodGet)
	r.HandleFunc("/tenant/theme", s.theme).Methods(http.MethodGet)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// AddUser registers credentials. The login answer carries only id, email
// and tenant_id; the full record comes from the profile endpoint.
func (s *Server) AddUser(u models.User, password, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[u.Email] = account{password: password, token: token, user: u}
	s.byToken[token] = u
}

func (s *Server) SetTheme(tenantID int64, theme models.TenantTheme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[tenantID] = theme
}

// FailMe makes the profile endpoint answer with status. Zero restores it.
func (s *Server) FailMe(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meStatus = status
}

// FailTheme makes the tenant theme endpoint answer with status. Zero restores it.
func (s *Server) FailTheme(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themeStatus = status
}

// HangTheme makes the tenant theme endpoint hold every request until the
// client gives up or the returned release func is called. The release func
// also runs when the test ends.
func (s *Server) HangTheme(t testing.TB) (release func()) {
	t.Helper()
	hang := make(chan struct{})
	s.mu.Lock()
	s.themeHang = hang
	s.mu.Unlock()

	var once sync.Once
	release = func() { once.Do(func() { close(hang) }) }
	t.Cleanup(release)
	return release
}

func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// LastHeaders returns the headers of the most recent request to path.
func (s *Server) LastHeaders(path string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[path].Clone()
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.headers[r.URL.Path] = r.Header.Clone()
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"msg": "malformed body"})
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error": map[string]any{"message": "invalid credentials", "details": map[string]any{"email": req.Email}},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": acc.token,
		"user":         map[string]any{"id": acc.user.ID, "email": acc.user.Email, "tenant_id": acc.user.TenantID},
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.meStatus
	s.mu.Unlock()
	if status != 0 {
		writeJSON(w, status, map[string]any{"msg": "profile unavailable"})
		return
	}

	u, ok := s.authorize(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"message": "missing or invalid token"}})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) theme(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, hang := s.themeStatus, s.themeHang
	s.mu.Unlock()
	if hang != nil {
		select {
		case <-hang:
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		writeJSON(w, status, map[string]any{"error": map[string]any{"message": "theme service failure"}})
		return
	}

	u, ok := s.authorize(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"message": "missing or invalid token"}})
		return
	}

	s.mu.Lock()
	theme, ok := s.themes[u.TenantID]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"message": "theme not found"}})
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

func (s *Server) authorize(r *http.Request) (models.User, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return models.User{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byToken[token]
	return u, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
