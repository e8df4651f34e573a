package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Anthonyjrchen/LegalClerk/internal/clerk"
	"github.com/Anthonyjrchen/LegalClerk/internal/config"
	"github.com/Anthonyjrchen/LegalClerk/internal/draft"
	appLog "github.com/Anthonyjrchen/LegalClerk/internal/log"
	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

// maxBodyBytes caps request bodies on POST endpoints.
const maxBodyBytes = 1 << 20

// Server provides the HTTP API over the clerk service.
type Server struct {
	cfg *config.Config
	svc *clerk.Service
	mux *http.ServeMux

	now func() time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, svc *clerk.Service) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		mux: http.NewServeMux(),
		now: time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password leaves auth disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="LegalClerk", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Serve runs the API on cfg.Listen until ctx is cancelled, then shuts
// down gracefully.
func Serve(ctx context.Context, cfg *config.Config, svc *clerk.Service) error {
	s := NewServer(cfg, svc)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/templates", s.handleTemplates)
	s.mux.HandleFunc("/api/calendars", s.handleCalendars)
	s.mux.HandleFunc("/api/deadlines", s.handleDeadlines)
	s.mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	s.mux.HandleFunc("/api/ics", s.handleICS)
	s.mux.HandleFunc("/api/schedule", s.handleSchedule)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// templatesResponse is the JSON response shape for /api/templates.
type templatesResponse struct {
	Templates []model.Template `json:"templates"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, templatesResponse{Templates: s.svc.Templates.Templates()})
}

// calendarsResponse is the JSON response shape for /api/calendars.
type calendarsResponse struct {
	Calendars []model.Calendar `json:"calendars"`
	Editable  []model.Calendar `json:"editable"`
}

func (s *Server) handleCalendars(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, calendarsResponse{
		Calendars: s.svc.Directory.Calendars(),
		Editable:  s.svc.Directory.Editable(),
	})
}

// handleDeadlines resolves deadlines without a draft.
//
// POST /api/deadlines
//
//	{"selected_templates": ["1"], "trial_date": "2025-08-22", "custom_dates": [...]}
func (s *Server) handleDeadlines(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req clerk.ResolveRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		appLog.Warn("api deadlines: bad request", "err", err.Error())
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Resolve(req))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	snap, err := s.svc.Snapshot(doc)
	if err != nil {
		appLog.Error("api snapshot failed", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	body, err := s.svc.ExportICS(doc, s.now())
	if err != nil {
		appLog.Error("api ics export failed", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trial.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleSchedule returns the printable schedule page for a draft document.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	body, err := s.svc.ScheduleHTML(doc)
	if err != nil {
		appLog.Error("api schedule render failed", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// readDocument decodes a draft document body on POST requests. It writes
// the error response itself and reports false on failure.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (draft.Document, bool) {
	if !allowMethod(w, r, http.MethodPost) {
		return draft.Document{}, false
	}
	doc, err := draft.DecodeDocument(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		appLog.Warn("api draft document rejected", "path", r.URL.Path, "err", err.Error())
		writeError(w, http.StatusBadRequest, err.Error())
		return draft.Document{}, false
	}
	return doc, true
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
