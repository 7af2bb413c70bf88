package entry

import (
	"net/http"

	"github.com/dwisurvei/webgis-seismik/internal/interfaces/http/common"
)

// genericAuthError never reveals which of the two fields was wrong.
const genericAuthError = "Username/Password Salah!"

func (h *Handler) loginFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.sessions.Read(r); ok {
			http.Redirect(w, r, "/entry", http.StatusSeeOther)
			return
		}
		h.renderLogin(w, http.StatusOK, "")
	}
}

func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.renderLogin(w, http.StatusBadRequest, "Form login tidak valid.")
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		if !h.credentials.Verify(username, password) {
			h.logf("rejected login attempt for user %q", username)
			h.renderLogin(w, http.StatusUnauthorized, genericAuthError)
			return
		}

		session := common.Session{
			Username:  h.credentials.Username,
			Latitude:  h.defaultLat,
			Longitude: h.defaultLon,
		}
		if err := h.sessions.Issue(w, session); err != nil {
			h.logf("failed to issue session: %v", err)
			h.renderLogin(w, http.StatusInternalServerError, "Gagal membuat sesi, coba lagi.")
			return
		}

		http.Redirect(w, r, "/entry", http.StatusSeeOther)
	}
}

func (h *Handler) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.Clear(w)
		http.Redirect(w, r, "/entry/login", http.StatusSeeOther)
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := loginTemplate.Execute(w, loginData{Error: message}); err != nil {
		h.logf("failed to render login page: %v", err)
	}
}
