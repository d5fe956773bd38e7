// Package http serves the tracker UI: an HTMX page whose partials are
// re-rendered from the ledger's derived views after every mutation.
package http

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
	"spendlog/internal/services"
	appweb "spendlog/web"
)

type Server struct {
	http.Server
	templates *template.Template
	svc       *services.LedgerService
	form      *services.FormSession
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, svc *services.LedgerService, form *services.FormSession) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{Addr: addr, Handler: mux},
		svc:    svc,
		form:   form,
	}

	t, err := template.New("").Funcs(template.FuncMap{
		"currency": core.FormatCurrency,
		"date":     core.FormatDate,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withRequestLogging(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// mutations
	mux.HandleFunc("/transactions", s.withRequestLogging(s.handleCreate))
	mux.HandleFunc("/transactions/update", s.withRequestLogging(s.handleUpdate))
	mux.HandleFunc("/transactions/delete", s.withRequestLogging(s.handleDelete))

	// UI partials
	mux.HandleFunc("/ui/transactions", s.withRequestLogging(s.handleListPartial))
	mux.HandleFunc("/ui/summary", s.withRequestLogging(s.handleSummaryPartial))
	mux.HandleFunc("/ui/chart", s.withRequestLogging(s.handleChartPartial))
	mux.HandleFunc("/ui/form", s.withRequestLogging(s.handleFormOpen))
	mux.HandleFunc("/ui/form/cancel", s.withRequestLogging(s.handleFormCancel))

	return s
}

// withRequestLogging adds security headers, a request ID and request/response
// logging around a handler.
func (s *Server) withRequestLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		slog.InfoContext(r.Context(), "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(r.Context(), "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
