package gsheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dwisurvei/webgis-seismik/internal/application"
	"github.com/dwisurvei/webgis-seismik/internal/domain"
)

const columnCount = 8

// Header is the worksheet column order. Writes must preserve it; reads
// ignore anything beyond these eight columns.
var Header = []string{"Nama", "Latitude", "Longitude", "Keterangan", "Kategori", "Foto", "Waktu", "User"}

// Repository maps worksheet rows onto survey records. It implements
// application.RecordRepository.
type Repository struct {
	client *Client
}

func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// List returns the current snapshot in worksheet order, with the header
// and fully empty rows stripped. Remote failures wrap
// application.ErrRemoteUnavailable.
func (r *Repository) List(ctx context.Context) ([]domain.SurveyRecord, error) {
	values, err := r.client.ReadValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", application.ErrRemoteUnavailable, err)
	}
	return decodeRows(values), nil
}

// Append persists one record as a whole-table read-modify-write: the
// current rows are re-read, the new row concatenated, and the full table
// written back. Two interleaved appends can lose one of the rows; the
// worksheet offers no concurrency primitive to close that gap.
func (r *Repository) Append(ctx context.Context, record domain.SurveyRecord) error {
	existing, err := r.List(ctx)
	if err != nil {
		return err
	}

	values := make([][]interface{}, 0, len(existing)+2)
	values = append(values, headerRow())
	for _, rec := range existing {
		values = append(values, encodeRecord(rec))
	}
	values = append(values, encodeRecord(record))

	if err := r.client.OverwriteValues(ctx, values); err != nil {
		return fmt.Errorf("%w: %v", application.ErrRemoteUnavailable, err)
	}
	return nil
}

func headerRow() []interface{} {
	row := make([]interface{}, len(Header))
	for i, name := range Header {
		row[i] = name
	}
	return row
}

func encodeRecord(record domain.SurveyRecord) []interface{} {
	return []interface{}{
		record.Name,
		strconv.FormatFloat(record.Latitude, 'f', -1, 64),
		strconv.FormatFloat(record.Longitude, 'f', -1, 64),
		record.Description,
		record.Category.String(),
		record.PhotoURL,
		record.Timestamp,
		record.SubmittedBy,
	}
}

func decodeRows(values [][]interface{}) []domain.SurveyRecord {
	records := make([]domain.SurveyRecord, 0, len(values))
	for i, row := range values {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		cells := rowStrings(row)
		if rowEmpty(cells) {
			continue
		}
		records = append(records, domain.SurveyRecord{
			Name:        cells[0],
			Latitude:    parseCoordinate(cells[1]),
			Longitude:   parseCoordinate(cells[2]),
			Description: cells[3],
			Category:    domain.NewCategory(cells[4]),
			PhotoURL:    domain.NormalizePhotoURL(cells[5]),
			Timestamp:   cells[6],
			SubmittedBy: cells[7],
		})
	}
	return records
}

// rowStrings flattens a worksheet row into exactly columnCount trimmed
// cells, padding short rows and dropping extra columns.
func rowStrings(row []interface{}) []string {
	cells := make([]string, columnCount)
	for i := 0; i < columnCount && i < len(row); i++ {
		cells[i] = strings.TrimSpace(fmt.Sprint(row[i]))
	}
	return cells
}

func rowEmpty(cells []string) bool {
	for _, cell := range cells {
		if cell != "" {
			return false
		}
	}
	return true
}

func isHeaderRow(row []interface{}) bool {
	if len(row) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(fmt.Sprint(row[0])), Header[0])
}

// parseCoordinate tolerates malformed cells: a value the sheet mangled
// becomes 0 rather than aborting the whole snapshot.
func parseCoordinate(cell string) float64 {
	if cell == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
	if err != nil {
		return 0
	}
	return value
}
