// Package httpserver serves the router over plain HTTP for local use.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
)

// Router serves a single request.
type Router interface {
	Handle(ctx context.Context, req domain.Request) (domain.Response, error)
}

// Handler provides the HTTP routes.
type Handler struct {
	router  Router
	metrics http.Handler
}

// NewHandler creates a Handler. metricsHandler may be nil.
func NewHandler(router Router, metricsHandler http.Handler) *Handler {
	return &Handler{router: router, metrics: metricsHandler}
}

// Routes returns the chi router: /metrics when available, and every other GET
// path through the static host router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}
	r.Get("/*", h.handleGet)
	r.Head("/*", h.handleGet)

	return r
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	req := RequestFromHTTP(r)

	resp, err := h.router.Handle(r.Context(), req)
	if err != nil {
		if errors.Is(err, zerrors.ErrInvalidInvocation) {
			http.Error(w, zerrors.InvalidInvocationSentinel, http.StatusBadRequest)
			return
		}
		log.Errorf("Request failed: %v", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	if err := WriteResponse(w, resp); err != nil {
		log.Warnf("Failed to write response: %v", err)
	}
}

// RequestFromHTTP builds a router request, carrying the Host header the way
// the load balancer does (lower-case "host", port included).
func RequestFromHTTP(r *http.Request) domain.Request {
	headers := make(map[string]string, len(r.Header)+1)
	for name := range r.Header {
		headers[http.CanonicalHeaderKey(name)] = r.Header.Get(name)
	}
	if r.Host != "" {
		headers["host"] = r.Host
	}
	return domain.Request{Headers: headers, Path: r.URL.Path}
}

// WriteResponse writes resp, decoding base64 bodies back to bytes.
func WriteResponse(w http.ResponseWriter, resp domain.Response) error {
	body, err := resp.DecodedBody()
	if err != nil {
		return err
	}

	for name, value := range resp.Headers {
		if value != "" {
			w.Header().Set(name, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, err = w.Write(body)
	return err
}

// Serve runs an HTTP server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
