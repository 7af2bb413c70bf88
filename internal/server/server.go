package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dwisurvei/webgis-seismik/internal/application"
	"github.com/dwisurvei/webgis-seismik/internal/config"
	"github.com/dwisurvei/webgis-seismik/internal/domain"
	entryhttp "github.com/dwisurvei/webgis-seismik/internal/interfaces/http/entry"
	publichttp "github.com/dwisurvei/webgis-seismik/internal/interfaces/http/public"
	"github.com/dwisurvei/webgis-seismik/internal/maprender"
)

// Server manages the HTTP lifecycle and injects dependencies into the
// public and entry handlers. It is the composition root: no domain logic
// lives here.
type Server struct {
	logger         *log.Logger
	addr           string
	allowedOrigins []string
	overlayPath    string

	queries  application.SurveyQueryService
	commands application.SurveyCommandService
	sessions *entryhttp.SessionManager
	renderer maprender.Renderer

	credentials entryhttp.Credentials
	centerLat   float64
	centerLon   float64
}

// New assembles services and handlers around the given repository and
// uploader ports.
func New(cfg config.Config, repo application.RecordRepository, uploader application.PhotoUploader) *Server {
	clock := domain.NewRecordClock(cfg.TimezoneName, cfg.TimezoneOffsetH)

	overlayURL := ""
	if cfg.Overlay.ImagePath != "" {
		overlayURL = "/static/" + filepath.Base(cfg.Overlay.ImagePath)
	}

	return &Server{
		logger:         cfg.ServerLog,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		overlayPath:    cfg.Overlay.ImagePath,
		queries:        application.NewSurveyQueryService(repo),
		commands:       application.NewSurveyCommandService(repo, uploader, clock, cfg.ServerLog),
		sessions:       entryhttp.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies),
		renderer: maprender.Renderer{
			Title:     cfg.MapTitle,
			CenterLat: cfg.CenterLat,
			CenterLon: cfg.CenterLon,
			Zoom:      cfg.Zoom,
			Overlay: maprender.Overlay{
				Name:      cfg.Overlay.Name,
				ImagePath: cfg.Overlay.ImagePath,
				URL:       overlayURL,
				South:     cfg.Overlay.South,
				West:      cfg.Overlay.West,
				North:     cfg.Overlay.North,
				East:      cfg.Overlay.East,
				Opacity:   cfg.Overlay.Opacity,
			},
		},
		credentials: entryhttp.Credentials{
			Username: cfg.EntryUsername,
			Password: cfg.EntryPassword,
		},
		centerLat: cfg.CenterLat,
		centerLon: cfg.CenterLon,
	}
}

// Run starts the HTTP server and assembles routing and middleware.
func (s *Server) Run() error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:   s.logger,
		Queries:  s.queries,
		Renderer: s.renderer,
	})
	publicHandler.Register(router)

	entryHandler := entryhttp.NewHandler(entryhttp.Config{
		Logger:      s.logger,
		Commands:    s.commands,
		Sessions:    s.sessions,
		Credentials: s.credentials,
		DefaultLat:  s.centerLat,
		DefaultLon:  s.centerLon,
	})
	router.Route("/entry", entryHandler.Register)

	if s.overlayPath != "" {
		s.registerOverlay(router)
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server listening on %s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s.logger)
	return nil
}

// registerOverlay serves the static raster image. A missing file returns
// 404; the map renderer independently omits the layer in that case.
func (s *Server) registerOverlay(router chi.Router) {
	route := "/static/" + filepath.Base(s.overlayPath)
	imagePath := s.overlayPath
	router.Get(route, func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, imagePath)
	})
}

// healthHandler checks that the remote table is reachable. The snapshot
// cache keeps this cheap.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := s.queries.List(ctx); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// withCORS adds CORS headers for the allowed origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("failed to encode JSON response: %v", err)
	}
}

// waitForShutdown watches ListenAndServe and OS signals for a graceful
// stop.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, logger *log.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited abnormally: %v", err)
		}
	case sig := <-sigChan:
		logger.Printf("received signal %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Printf("error during shutdown: %v", err)
		}
	}
}
