package public

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dwisurvei/webgis-seismik/internal/application"
	"github.com/dwisurvei/webgis-seismik/internal/maprender"
)

// Handler serves the public map view and its data feeds. No login is
// required on this surface.
type Handler struct {
	logger   *log.Logger
	queries  application.SurveyQueryService
	renderer maprender.Renderer
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger   *log.Logger
	Queries  application.SurveyQueryService
	Renderer maprender.Renderer
}

// NewHandler constructs the public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:   cfg.Logger,
		queries:  cfg.Queries,
		renderer: cfg.Renderer,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.mapPageHandler())
	r.Get("/markers.geojson", h.markersHandler())
	r.Get("/records", h.recordsHandler())
}

func (h *Handler) mapPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		records, err := h.queries.List(ctx)
		if err != nil {
			h.logger.Printf("table read failed, rendering empty map: %v", err)
			records = nil
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if renderErr := h.renderer.RenderPage(w, records, err); renderErr != nil {
			h.logger.Printf("failed to render map page: %v", renderErr)
		}
	}
}
