package entry

import (
	"log"

	"github.com/go-chi/chi/v5"

	"github.com/dwisurvei/webgis-seismik/internal/application"
)

// maxSubmitBody caps the multipart submission body (photo included).
const maxSubmitBody = 10 << 20

// Handler wires the login-gated data-entry surface.
type Handler struct {
	logger      *log.Logger
	commands    application.SurveyCommandService
	sessions    *SessionManager
	credentials Credentials
	defaultLat  float64
	defaultLon  float64
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger      *log.Logger
	Commands    application.SurveyCommandService
	Sessions    *SessionManager
	Credentials Credentials
	DefaultLat  float64
	DefaultLon  float64
}

// NewHandler constructs the entry HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:      cfg.Logger,
		commands:    cfg.Commands,
		sessions:    cfg.Sessions,
		credentials: cfg.Credentials,
		defaultLat:  cfg.DefaultLat,
		defaultLon:  cfg.DefaultLon,
	}
}

// Register mounts the entry routes. Everything past login requires a
// valid session; without one the middleware redirects to the login page.
func (h *Handler) Register(r chi.Router) {
	r.Get("/login", h.loginFormHandler())
	r.Post("/login", h.loginHandler())
	r.Post("/logout", h.logoutHandler())

	r.Group(func(gated chi.Router) {
		gated.Use(h.sessions.Middleware)
		gated.Get("/", h.formHandler())
		gated.Post("/location", h.locationHandler())
		gated.Post("/submit", h.submitHandler())
	})
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
