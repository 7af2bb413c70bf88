package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/dwisurvei/webgis-seismik/internal/config"
	"github.com/dwisurvei/webgis-seismik/internal/domain"
	"github.com/dwisurvei/webgis-seismik/internal/infrastructure/gsheet"
)

// seed prepares an empty worksheet: it writes the header row and,
// optionally, one sample record so the map page has something to show.
func main() {
	withSample := flag.Bool("sample", false, "also append one sample survey record")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	cfg := config.Load()
	logger := cfg.ServerLog

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := gsheet.NewClient(ctx, cfg.SpreadsheetID, cfg.Worksheet, cfg.CredentialsFile, cfg.CredentialsJSON, 0)
	if err != nil {
		logger.Fatalf("failed to build Sheets client: %v", err)
	}
	repo := gsheet.NewRepository(client)

	records, err := repo.List(ctx)
	if err != nil {
		logger.Fatalf("failed to read worksheet %q: %v", cfg.Worksheet, err)
	}
	if len(records) > 0 {
		logger.Printf("worksheet %q already holds %d records, nothing to do", cfg.Worksheet, len(records))
		return
	}

	if err := seedHeader(ctx, client); err != nil {
		logger.Fatalf("failed to write header row: %v", err)
	}
	logger.Printf("wrote header row to worksheet %q", cfg.Worksheet)

	if !*withSample {
		return
	}

	clock := domain.NewRecordClock(cfg.TimezoneName, cfg.TimezoneOffsetH)
	sample := domain.SurveyRecord{
		Name:        "Contoh Titik Survei",
		Latitude:    cfg.CenterLat,
		Longitude:   cfg.CenterLon,
		Description: "Baris contoh dari cmd/seed, boleh dihapus.",
		Category:    domain.CategoryAman,
		Timestamp:   clock.Timestamp(),
		SubmittedBy: "seed",
	}
	if err := repo.Append(ctx, sample); err != nil {
		logger.Fatalf("failed to append sample record: %v", err)
	}
	logger.Printf("appended sample record %q", sample.Name)

	// Sanity check the round trip the API will rely on.
	if _, err := repo.List(ctx); err != nil {
		logger.Fatalf("re-read after seeding failed: %v", err)
	}
}

func seedHeader(ctx context.Context, client *gsheet.Client) error {
	header := make([]interface{}, len(gsheet.Header))
	for i, name := range gsheet.Header {
		header[i] = name
	}
	return client.OverwriteValues(ctx, [][]interface{}{header})
}
