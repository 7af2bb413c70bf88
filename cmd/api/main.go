package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dwisurvei/webgis-seismik/internal/config"
	"github.com/dwisurvei/webgis-seismik/internal/infrastructure/gsheet"
	"github.com/dwisurvei/webgis-seismik/internal/infrastructure/imgbb"
	"github.com/dwisurvei/webgis-seismik/internal/server"
)

func main() {
	// Local setups keep secrets in .env; absence is fine in production.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client, err := gsheet.NewClient(ctx, cfg.SpreadsheetID, cfg.Worksheet, cfg.CredentialsFile, cfg.CredentialsJSON, cfg.CacheTTL)
	if err != nil {
		cfg.ServerLog.Fatalf("failed to build Sheets client: %v", err)
	}

	repo := gsheet.NewRepository(client)
	uploader := imgbb.NewClient(cfg.ImgbbEndpoint, cfg.ImgbbAPIKey, cfg.ImgbbTimeout)

	app := server.New(cfg, repo, uploader)
	if err := app.Run(); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}
