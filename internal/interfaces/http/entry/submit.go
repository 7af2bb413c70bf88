package entry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dwisurvei/webgis-seismik/internal/application"
	"github.com/dwisurvei/webgis-seismik/internal/interfaces/http/common"
)

// formState carries the entry form contents across renders, so a failed
// submission never costs the user their input. Coordinates stay strings
// here: whatever was typed is what comes back.
type formState struct {
	Name        string
	Latitude    string
	Longitude   string
	Description string
	Category    string
}

func (h *Handler) formHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := common.SessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/entry/login", http.StatusSeeOther)
			return
		}

		form := formState{
			Latitude:  strconv.FormatFloat(session.Latitude, 'f', 6, 64),
			Longitude: strconv.FormatFloat(session.Longitude, 'f', 6, 64),
		}
		h.renderForm(w, http.StatusOK, session, form, "", "", "")
	}
}

// locationHandler stores a GPS reading into the session cookie. A null
// reading (absent fields) leaves the stored coordinate untouched.
func (h *Handler) locationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := common.SessionFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "sesi tidak ditemukan"})
			return
		}

		defer r.Body.Close()
		payload := struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		}{}
		decoder := json.NewDecoder(io.LimitReader(r.Body, 1024))
		if err := decoder.Decode(&payload); err != nil && err != io.EOF {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "payload lokasi tidak valid"})
			return
		}

		updated := false
		if payload.Latitude != nil && payload.Longitude != nil {
			session.Latitude = *payload.Latitude
			session.Longitude = *payload.Longitude
			updated = true
			if err := h.sessions.Issue(w, session); err != nil {
				h.logf("failed to reissue session: %v", err)
				common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "gagal menyimpan lokasi"})
				return
			}
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"updated":   updated,
			"latitude":  session.Latitude,
			"longitude": session.Longitude,
		})
	}
}

func (h *Handler) submitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := common.SessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/entry/login", http.StatusSeeOther)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)
		if err := r.ParseMultipartForm(maxSubmitBody); err != nil {
			h.renderForm(w, http.StatusBadRequest, session, formState{}, "", "Form tidak valid atau foto terlalu besar.", "")
			return
		}

		form := formState{
			Name:        strings.TrimSpace(r.PostFormValue("nama")),
			Latitude:    strings.TrimSpace(r.PostFormValue("latitude")),
			Longitude:   strings.TrimSpace(r.PostFormValue("longitude")),
			Description: r.PostFormValue("keterangan"),
			Category:    r.PostFormValue("kategori"),
		}

		if form.Name == "" {
			h.renderForm(w, http.StatusBadRequest, session, form, "", "Isi Nama Lokasi!", "")
			return
		}

		lat, lon, err := h.resolveCoordinates(form, session)
		if err != nil {
			h.renderForm(w, http.StatusBadRequest, session, form, "", err.Error(), "")
			return
		}

		photo, err := readPhoto(r)
		if err != nil {
			h.renderForm(w, http.StatusBadRequest, session, form, "", "Foto tidak dapat dibaca.", "")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		result, err := h.commands.Submit(ctx, application.SubmitCommand{
			Name:        form.Name,
			Latitude:    lat,
			Longitude:   lon,
			Description: form.Description,
			Category:    form.Category,
			Photo:       photo,
			SubmittedBy: session.Username,
		})
		if err != nil {
			if errors.Is(err, application.ErrRemoteUnavailable) {
				h.logf("submission write failed: %v", err)
				// Keep the form contents so the user can retry.
				h.renderForm(w, http.StatusBadGateway, session, form, "", "", err.Error())
				return
			}
			h.renderForm(w, http.StatusBadRequest, session, form, "", err.Error(), "")
			return
		}

		// Fresh blank form; the next map read picks up the new row.
		blank := formState{
			Latitude:  strconv.FormatFloat(session.Latitude, 'f', 6, 64),
			Longitude: strconv.FormatFloat(session.Longitude, 'f', 6, 64),
		}
		message := "Data Tersimpan pada " + result.Record.Timestamp + " WIB!"
		h.renderForm(w, http.StatusOK, session, blank, message, result.Warning, "")
	}
}

// resolveCoordinates prefers the typed values and falls back to the
// session's last known GPS coordinate for blank fields.
func (h *Handler) resolveCoordinates(form formState, session common.Session) (float64, float64, error) {
	lat := session.Latitude
	lon := session.Longitude

	if form.Latitude != "" {
		parsed, err := strconv.ParseFloat(form.Latitude, 64)
		if err != nil {
			return 0, 0, errors.New("Format latitude tidak valid.")
		}
		lat = parsed
	}
	if form.Longitude != "" {
		parsed, err := strconv.ParseFloat(form.Longitude, 64)
		if err != nil {
			return 0, 0, errors.New("Format longitude tidak valid.")
		}
		lon = parsed
	}
	return lat, lon, nil
}

// readPhoto pulls the optional photo part. No photo is not an error.
func readPhoto(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("foto")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (h *Handler) renderForm(w http.ResponseWriter, status int, session common.Session, form formState, message, warning, failure string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := entryData{
		Username:   session.Username,
		SessionLat: session.Latitude,
		SessionLon: session.Longitude,
		Form:       form,
		Message:    message,
		Warning:    warning,
		Error:      failure,
		Categories: categoryOptions,
	}
	if err := entryTemplate.Execute(w, data); err != nil {
		h.logf("failed to render entry page: %v", err)
	}
}
