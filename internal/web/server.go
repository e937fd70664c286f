package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tgvmax-weekends/internal/common/config"
	"github.com/tgvmax-weekends/internal/common/logger"
	"github.com/tgvmax-weekends/internal/finder"
	"github.com/tgvmax-weekends/internal/presenter"
	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

// ViewFinder runs one fetch/classify/present cycle.
type ViewFinder interface {
	Run(ctx context.Context, sel finder.Selection) (presenter.View, error)
}

type Handler struct {
	finder ViewFinder
	routes config.RoutesConfig
	logger logger.Logger
}

func NewHandler(f ViewFinder, routes config.RoutesConfig, log logger.Logger) *Handler {
	return &Handler{finder: f, routes: routes, logger: log}
}

// ErrorResponse is the JSON body of failed API calls.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/", h.Page)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/api/routes", h.Routes)
	r.Get("/api/weekends", h.Weekends)

	return r
}

// Page handles GET / and renders the HTML view.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	view, err := h.finder.Run(r.Context(), sel)
	if err != nil {
		h.logger.Error("Failed to build weekends", "route", sel.Route.Name, "error", err)
		http.Error(w, "Impossible de récupérer les trains: "+err.Error(), http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := presenter.RenderHTML(&buf, presenter.PageData{
		View:     view,
		Routes:   h.routes.Routes,
		Selected: sel.Route.Name,
		Swapped:  sel.Swapped,
	}); err != nil {
		h.logger.Error("Failed to render page", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// Weekends handles GET /api/weekends
func (h *Handler) Weekends(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r)
	if err != nil {
		writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.finder.Run(r.Context(), sel)
	if err != nil {
		h.logger.Error("Failed to build weekends", "route", sel.Route.Name, "error", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Routes handles GET /api/routes
func (h *Handler) Routes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default": h.routes.Default,
		"routes":  h.routes.Routes,
	})
}

type badRequest struct{ error }

func (h *Handler) selection(r *http.Request) (finder.Selection, error) {
	q := r.URL.Query()

	route, err := h.routes.Find(q.Get("route"))
	if err != nil {
		return finder.Selection{}, err
	}

	sel := finder.Selection{
		Route:    route,
		Swapped:  q.Get("swap") == "1" || q.Get("swap") == "true",
		HidePast: q.Get("hide_past") == "1" || q.Get("hide_past") == "true",
	}

	if s := q.Get("today"); s != "" {
		today, err := models.ParseDate(s)
		if err != nil {
			return finder.Selection{}, badRequest{err}
		}
		sel.Today = today
	}

	return sel, nil
}

func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.Is(err, config.ErrUnknownRoute):
		return http.StatusNotFound
	case errors.As(err, &br):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []interface{}{
				"status", ww.Status(),
				"method", r.Method,
				"path", r.URL.Path,
				"latency", time.Since(start).String(),
				"user-agent", r.UserAgent(),
			}

			switch code := ww.Status(); {
			case code >= http.StatusInternalServerError:
				log.Error("HTTP Request", fields...)
			case code >= http.StatusBadRequest:
				log.Warn("HTTP Request", fields...)
			default:
				log.Info("HTTP Request", fields...)
			}
		})
	}
}

// Serve listens on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler, log logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Web server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("Web server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}
