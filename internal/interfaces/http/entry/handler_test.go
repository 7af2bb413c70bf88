package entry

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dwisurvei/webgis-seismik/internal/application"
	"github.com/dwisurvei/webgis-seismik/internal/domain"
)

type fakeCommands struct {
	result    application.SubmitResult
	err       error
	lastCmd   application.SubmitCommand
	submitted int
}

func (f *fakeCommands) Submit(_ context.Context, cmd application.SubmitCommand) (application.SubmitResult, error) {
	f.submitted++
	f.lastCmd = cmd
	if f.err != nil {
		return application.SubmitResult{}, f.err
	}
	if f.result.Record.Name == "" {
		f.result.Record = domain.SurveyRecord{
			Name:      cmd.Name,
			Timestamp: "2024-03-01 12:00:00",
		}
	}
	return f.result, nil
}

func newTestRouter(commands application.SurveyCommandService) (*chi.Mux, *SessionManager) {
	sessions := NewSessionManager([]byte("rahasia-sesi"), time.Hour, false)
	handler := NewHandler(Config{
		Commands:    commands,
		Sessions:    sessions,
		Credentials: Credentials{Username: "admin", Password: "123"},
		DefaultLat:  -7.7,
		DefaultLon:  110.35,
	})

	router := chi.NewRouter()
	router.Route("/entry", handler.Register)
	return router, sessions
}

func loginCookie(t *testing.T, router *chi.Mux) *http.Cookie {
	t.Helper()
	form := url.Values{"username": {"admin"}, "password": {"123"}}
	req := httptest.NewRequest(http.MethodPost, "/entry/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", rec.Code)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("no session cookie issued after login")
	return nil
}

func TestLoginWrongPasswordStaysLoggedOut(t *testing.T) {
	router, _ := newTestRouter(&fakeCommands{})

	form := url.Values{"username": {"admin"}, "password": {"salah"}}
	req := httptest.NewRequest(http.MethodPost, "/entry/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), genericAuthError) {
		t.Error("generic auth error missing from response")
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			t.Error("session cookie issued for a failed login")
		}
	}

	// The entry form stays unreachable.
	req = httptest.NewRequest(http.MethodGet, "/entry/", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("entry form without session: status = %d, want redirect", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/entry/login" {
		t.Errorf("redirect target = %q", got)
	}
}

func TestLoginErrorDoesNotRevealField(t *testing.T) {
	router, _ := newTestRouter(&fakeCommands{})

	attempts := []url.Values{
		{"username": {"admin"}, "password": {"salah"}},
		{"username": {"tamu"}, "password": {"123"}},
	}
	bodies := make([]string, 0, len(attempts))
	for _, form := range attempts {
		req := httptest.NewRequest(http.MethodPost, "/entry/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		bodies = append(bodies, rec.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Error("wrong-password and wrong-username responses differ")
	}
}

func TestLoginSuccessShowsForm(t *testing.T) {
	router, _ := newTestRouter(&fakeCommands{})
	cookie := loginCookie(t, router)

	req := httptest.NewRequest(http.MethodGet, "/entry/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Input Data: admin") {
		t.Error("form header missing username")
	}
	// Default coordinate prefilled from the session.
	if !strings.Contains(body, "-7.700000") || !strings.Contains(body, "110.350000") {
		t.Error("default centroid not prefilled")
	}
}

func TestLocationUpdateRewritesSession(t *testing.T) {
	router, sessions := newTestRouter(&fakeCommands{})
	cookie := loginCookie(t, router)

	req := httptest.NewRequest(http.MethodPost, "/entry/location", strings.NewReader(`{"latitude":-7.81,"longitude":110.42}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var reissued *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			reissued = c
		}
	}
	if reissued == nil {
		t.Fatal("session cookie not reissued after location update")
	}

	readReq := httptest.NewRequest(http.MethodGet, "/entry/", nil)
	readReq.AddCookie(reissued)
	session, ok := sessions.Read(readReq)
	if !ok {
		t.Fatal("reissued cookie unreadable")
	}
	if session.Latitude != -7.81 || session.Longitude != 110.42 {
		t.Errorf("session coordinate = (%v, %v)", session.Latitude, session.Longitude)
	}
}

func TestLocationNullReadingLeavesCoordinate(t *testing.T) {
	router, _ := newTestRouter(&fakeCommands{})
	cookie := loginCookie(t, router)

	req := httptest.NewRequest(http.MethodPost, "/entry/location", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"updated":false`) {
		t.Errorf("null reading should not update: %s", body)
	}
	if !strings.Contains(body, "-7.7") {
		t.Errorf("previous coordinate missing: %s", body)
	}
}

func multipartBody(t *testing.T, fields map[string]string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if photo != nil {
		part, err := writer.CreateFormFile("foto", "foto.jpg")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(photo); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return body, writer.FormDataContentType()
}

func TestSubmitSuccessResetsForm(t *testing.T) {
	commands := &fakeCommands{result: application.SubmitResult{Warning: "Gagal upload foto, data tetap disimpan tanpa foto."}}
	router, _ := newTestRouter(commands)
	cookie := loginCookie(t, router)

	body, contentType := multipartBody(t, map[string]string{
		"nama":       "Site A",
		"latitude":   "-7.8",
		"longitude":  "110.4",
		"kategori":   "Bahaya",
		"keterangan": "retakan",
	}, []byte{0xff, 0xd8})

	req := httptest.NewRequest(http.MethodPost, "/entry/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	page := rec.Body.String()
	if !strings.Contains(page, "Data Tersimpan pada 2024-03-01 12:00:00 WIB!") {
		t.Error("confirmation message missing")
	}
	// Upload warning surfaces even though the record persisted.
	if !strings.Contains(page, "tanpa foto") {
		t.Error("upload warning missing")
	}
	// Form reset: the name input is blank again.
	if !strings.Contains(page, `name="nama" value=""`) {
		t.Error("form not reset after successful submission")
	}

	if commands.lastCmd.SubmittedBy != "admin" {
		t.Errorf("SubmittedBy = %q", commands.lastCmd.SubmittedBy)
	}
	if commands.lastCmd.Latitude != -7.8 || commands.lastCmd.Longitude != 110.4 {
		t.Errorf("coordinates = (%v, %v)", commands.lastCmd.Latitude, commands.lastCmd.Longitude)
	}
	if len(commands.lastCmd.Photo) == 0 {
		t.Error("photo bytes not forwarded")
	}
}

func TestSubmitMissingNameKeepsInput(t *testing.T) {
	commands := &fakeCommands{}
	router, _ := newTestRouter(commands)
	cookie := loginCookie(t, router)

	body, contentType := multipartBody(t, map[string]string{
		"nama":       "   ",
		"keterangan": "catatan penting",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/entry/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, "Isi Nama Lokasi!") {
		t.Error("validation warning missing")
	}
	if !strings.Contains(page, "catatan penting") {
		t.Error("form input lost on validation failure")
	}
	if commands.submitted != 0 {
		t.Error("workflow ran despite missing name")
	}
}

func TestSubmitWriteFailureKeepsForm(t *testing.T) {
	commands := &fakeCommands{err: fmt.Errorf("gagal menyimpan data: %w", application.ErrRemoteUnavailable)}
	router, _ := newTestRouter(commands)
	cookie := loginCookie(t, router)

	body, contentType := multipartBody(t, map[string]string{
		"nama":     "Site B",
		"kategori": "Aman",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/entry/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, "gagal menyimpan") {
		t.Error("write error not surfaced")
	}
	if !strings.Contains(page, `value="Site B"`) {
		t.Error("form contents lost after write failure")
	}
}

func TestSubmitWithoutSessionRedirects(t *testing.T) {
	router, _ := newTestRouter(&fakeCommands{})

	body, contentType := multipartBody(t, map[string]string{"nama": "X"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/entry/submit", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want redirect to login", rec.Code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	router, _ := newTestRouter(&fakeCommands{})
	cookie := loginCookie(t, router)

	req := httptest.NewRequest(http.MethodPost, "/entry/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not cleared on logout")
	}
}
