package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Overlay configures the optional static raster layer. Bounds are the
// south-west and north-east corners.
type Overlay struct {
	Name      string
	ImagePath string
	South     float64
	West      float64
	North     float64
	East      float64
	Opacity   float64
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr    string
	Timeout time.Duration

	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
	CredentialsJSON string
	CacheTTL        time.Duration

	ImgbbEndpoint string
	ImgbbAPIKey   string
	ImgbbTimeout  time.Duration

	EntryUsername     string
	EntryPassword     string
	AllowDefaultLogin bool

	SessionSecret []byte
	SessionTTL    time.Duration
	SecureCookies bool

	TimezoneName    string
	TimezoneOffsetH int

	MapTitle  string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Overlay   Overlay

	AllowedOrigins []string
	ServerLog      *log.Logger
}

// Load reads environment variables and returns a fully populated Config.
// Wholly missing remote-table configuration and a missing session secret
// are unrecoverable: fail fast rather than partially render.
func Load() Config {
	logger := log.New(os.Stdout, "[webgis-seismik] ", log.LstdFlags|log.Lshortfile)

	spreadsheetID := strings.TrimSpace(os.Getenv("GSHEET_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		log.Fatal("GSHEET_SPREADSHEET_ID must be configured")
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET must be configured")
	}

	cacheTTL := 5 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GSHEET_CACHE_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			cacheTTL = parsed
		}
	}

	timeout := 10 * time.Second
	if raw := strings.TrimSpace(os.Getenv("HTTP_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			timeout = parsed
		}
	}

	imgbbTimeout := 15 * time.Second
	if raw := strings.TrimSpace(os.Getenv("IMGBB_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			imgbbTimeout = parsed
		}
	}

	sessionTTL := 12 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			sessionTTL = parsed
		}
	}

	entryUsername := strings.TrimSpace(os.Getenv("ENTRY_USERNAME"))
	entryPassword := os.Getenv("ENTRY_PASSWORD")
	allowDefault := strings.EqualFold(strings.TrimSpace(os.Getenv("ENTRY_ALLOW_DEFAULT_LOGIN")), "true")

	if entryUsername == "" || entryPassword == "" {
		if !allowDefault {
			log.Fatal("ENTRY_USERNAME/ENTRY_PASSWORD must be configured (or set ENTRY_ALLOW_DEFAULT_LOGIN=true for local testing)")
		}
		// The insecure local-testing pair. Loud on purpose.
		entryUsername, entryPassword = "admin", "123"
		logger.Printf("WARNING: no login pair configured, using the insecure default credentials (admin/123); do not deploy like this")
	}

	if strings.TrimSpace(os.Getenv("IMGBB_API_KEY")) == "" {
		logger.Printf("IMGBB_API_KEY not set; photo uploads will fail and records will be stored without photos")
	}

	cfg := Config{
		Addr:    envOrDefault("HTTP_ADDR", ":8080"),
		Timeout: timeout,

		SpreadsheetID:   spreadsheetID,
		Worksheet:       envOrDefault("GSHEET_WORKSHEET", "Sheet1"),
		CredentialsFile: strings.TrimSpace(os.Getenv("GSHEET_CREDENTIALS_FILE")),
		CredentialsJSON: strings.TrimSpace(os.Getenv("GSHEET_CREDENTIALS_JSON")),
		CacheTTL:        cacheTTL,

		ImgbbEndpoint: strings.TrimSpace(os.Getenv("IMGBB_ENDPOINT")),
		ImgbbAPIKey:   strings.TrimSpace(os.Getenv("IMGBB_API_KEY")),
		ImgbbTimeout:  imgbbTimeout,

		EntryUsername:     entryUsername,
		EntryPassword:     entryPassword,
		AllowDefaultLogin: allowDefault,

		SessionSecret: []byte(sessionSecret),
		SessionTTL:    sessionTTL,
		SecureCookies: strings.EqualFold(strings.TrimSpace(os.Getenv("SECURE_COOKIES")), "true"),

		TimezoneName:    envOrDefault("RECORD_TZ_NAME", "WIB"),
		TimezoneOffsetH: envIntOrDefault("RECORD_TZ_OFFSET_HOURS", 7),

		MapTitle:  envOrDefault("MAP_TITLE", "WebGIS Zona Bahaya Seismik"),
		CenterLat: envFloatOrDefault("MAP_CENTER_LAT", -7.7),
		CenterLon: envFloatOrDefault("MAP_CENTER_LON", 110.35),
		Zoom:      envIntOrDefault("MAP_ZOOM", 11),
		Overlay: Overlay{
			Name:      envOrDefault("OVERLAY_NAME", "Peta Mikrozonasi (Vs30)"),
			ImagePath: envOrDefault("OVERLAY_IMAGE_PATH", "vs30.png"),
			South:     envFloatOrDefault("OVERLAY_SOUTH", -8.246588),
			West:      envFloatOrDefault("OVERLAY_WEST", 109.933319),
			North:     envFloatOrDefault("OVERLAY_NORTH", -7.434855),
			East:      envFloatOrDefault("OVERLAY_EAST", 111.044312),
			Opacity:   envFloatOrDefault("OVERLAY_OPACITY", 0.6),
		},

		AllowedOrigins: parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		ServerLog:      logger,
	}

	if cfg.CredentialsFile == "" && cfg.CredentialsJSON == "" {
		logger.Printf("no Sheets credentials configured; relying on application default credentials")
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envFloatOrDefault(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
