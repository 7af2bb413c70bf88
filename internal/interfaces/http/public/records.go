package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dwisurvei/webgis-seismik/internal/application"
	"github.com/dwisurvei/webgis-seismik/internal/domain"
	"github.com/dwisurvei/webgis-seismik/internal/interfaces/http/common"
	"github.com/dwisurvei/webgis-seismik/internal/maprender"
)

// recordResponse is the JSON view of one survey row, mirroring the
// worksheet column order.
type recordResponse struct {
	Nama       string  `json:"nama"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Keterangan string  `json:"keterangan"`
	Kategori   string  `json:"kategori"`
	Foto       string  `json:"foto,omitempty"`
	Waktu      string  `json:"waktu"`
	User       string  `json:"user"`
}

// markersHandler serves the marker set as GeoJSON. On a remote failure it
// degrades to an empty collection instead of failing the map.
func (h *Handler) markersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		records, err := h.queries.List(ctx)
		if err != nil {
			h.logger.Printf("table read failed, serving empty markers: %v", err)
			records = nil
			w.Header().Set("X-Data-Error", "remote table unavailable")
		}

		w.Header().Set("Content-Type", "application/geo+json")
		collection := maprender.FeatureCollection(records)
		payload, marshalErr := collection.MarshalJSON()
		if marshalErr != nil {
			h.logger.Printf("failed to encode marker collection: %v", marshalErr)
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
		w.Write(payload)
	}
}

// recordsHandler is the tabular view of the snapshot, the JSON
// counterpart of the map page's data table.
func (h *Handler) recordsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		records, err := h.queries.List(ctx)
		if err != nil {
			status := http.StatusBadGateway
			if !errors.Is(err, application.ErrRemoteUnavailable) {
				status = http.StatusInternalServerError
			}
			common.WriteJSON(h.logger, w, status, map[string]any{
				"error":   err.Error(),
				"records": []recordResponse{},
			})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"records": buildRecordResponses(records),
			"count":   len(records),
		})
	}
}

func buildRecordResponses(records []domain.SurveyRecord) []recordResponse {
	responses := make([]recordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, recordResponse{
			Nama:       record.Name,
			Latitude:   record.Latitude,
			Longitude:  record.Longitude,
			Keterangan: record.Description,
			Kategori:   record.Category.String(),
			Foto:       record.PhotoURL,
			Waktu:      record.Timestamp,
			User:       record.SubmittedBy,
		})
	}
	return responses
}
