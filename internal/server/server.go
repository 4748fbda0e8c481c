// package server contains middleware & handlers for the music library web service
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/musik/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Route is a path pattern and the methods it accepts.
type Route struct {
	Methods []string
	Path    string
}

// Get returns a route accepting GET and HEAD.
func Get(path string) Route { return Route{Methods: []string{http.MethodGet, http.MethodHead}, Path: path} }

// Post returns a route accepting POST.
func Post(path string) Route { return Route{Methods: []string{http.MethodPost}, Path: path} }

// Handler defines the interface for HTTP request handlers in the library service.
// Implementations handle specific endpoints (import queue, catalog queries, streaming, pages).
type Handler interface {
	http.Handler     // ServeHTTP handles the HTTP request and writes the response
	Routes() []Route // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                               // Use adds middleware to the router's middleware stack
	Handle(methods []string, path string, handler http.Handler) // Handle registers a handler for the specified methods and path
	Handler(handler Handler)                                    // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request)           // ServeHTTP implements http.Handler for the entire router
}

// Server serves the JSON API and any page handlers on one listener.
type Server struct {
	addr   string
	router *BasicRouter
	logger *log.Logger
}

// New creates a server for cfg with the standard middleware stack and the given handlers.
func New(cfg shared.ServerConfig, logger *log.Logger, handlers ...Handler) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "component", "server")

	router := NewBasicRouter()
	router.Use(Recoverer(logger), RequestLogger(logger), CORS(cfg.AllowedOrigins))
	for _, h := range handlers {
		router.Handler(h)
	}

	return &Server{addr: cfg.Addr(), router: router, logger: logger}
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func handlerLogger(logger *log.Logger, name string) *log.Logger {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return shared.WithLogger(logger, "handler", name)
}
