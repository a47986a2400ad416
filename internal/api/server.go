package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dharsanguruparan/SchoolHub/internal/blob"
	"github.com/dharsanguruparan/SchoolHub/internal/config"
	"github.com/dharsanguruparan/SchoolHub/internal/schools"
)

// Server exposes the schools endpoints over HTTP.
type Server struct {
	cfg    *config.Config
	svc    *schools.Service
	blobs  blob.Store
	log    logrus.FieldLogger
	server *http.Server
	once   sync.Once
}

// New constructs a Server. When blobs is a LocalStore its directory is served
// under cfg.StaticPrefix.
func New(cfg *config.Config, svc *schools.Service, blobs blob.Store, log logrus.FieldLogger) *Server {
	return &Server{
		cfg:   cfg,
		svc:   svc,
		blobs: blobs,
		log:   log,
	}
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	for _, prefix := range []string{"/schools", "/api/schools"} {
		r.HandleFunc(prefix, s.handleCreate).Methods(http.MethodPost)
		r.HandleFunc(prefix, s.handleList).Methods(http.MethodGet)
		r.HandleFunc(prefix, s.handleDelete).Methods(http.MethodDelete)
	}
	if local, ok := s.blobs.(*blob.LocalStore); ok {
		r.PathPrefix(s.cfg.StaticPrefix).Handler(
			http.StripPrefix(s.cfg.StaticPrefix, noDirListing(http.FileServer(http.Dir(local.Dir())))),
		).Methods(http.MethodGet, http.MethodHead)
	}
	return corsMiddleware(s.loggingMiddleware(r))
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.once.Do(func() {
		s.server = &http.Server{
			Addr:              s.cfg.Address,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	s.log.WithField("address", s.cfg.Address).Info("api listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}
