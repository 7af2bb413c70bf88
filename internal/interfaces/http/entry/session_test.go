package entry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dwisurvei/webgis-seismik/internal/interfaces/http/common"
)

func issueAndCapture(t *testing.T, manager *SessionManager, session common.Session) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := manager.Issue(rec, session); err != nil {
		t.Fatal(err)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie written")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	manager := NewSessionManager([]byte("rahasia-sesi"), time.Hour, false)
	want := common.Session{Username: "admin", Latitude: -7.81, Longitude: 110.42}

	cookie := issueAndCapture(t, manager, want)
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/entry", nil)
	req.AddCookie(cookie)
	got, ok := manager.Read(req)
	if !ok {
		t.Fatal("issued cookie unreadable")
	}
	if got != want {
		t.Errorf("session = %+v, want %+v", got, want)
	}
}

func TestSessionRejectsTamperedToken(t *testing.T) {
	manager := NewSessionManager([]byte("rahasia-sesi"), time.Hour, false)
	cookie := issueAndCapture(t, manager, common.Session{Username: "admin"})

	parts := strings.Split(cookie.Value, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	cookie.Value = parts[0] + "." + parts[1] + ".AAAA"

	req := httptest.NewRequest(http.MethodGet, "/entry", nil)
	req.AddCookie(cookie)
	if _, ok := manager.Read(req); ok {
		t.Error("tampered token accepted")
	}
}

func TestSessionRejectsForeignSecret(t *testing.T) {
	issuer := NewSessionManager([]byte("kunci-a"), time.Hour, false)
	verifier := NewSessionManager([]byte("kunci-b"), time.Hour, false)

	cookie := issueAndCapture(t, issuer, common.Session{Username: "admin"})
	req := httptest.NewRequest(http.MethodGet, "/entry", nil)
	req.AddCookie(cookie)
	if _, ok := verifier.Read(req); ok {
		t.Error("token signed with another secret accepted")
	}
}

func TestSessionMissingCookieReadsLoggedOut(t *testing.T) {
	manager := NewSessionManager([]byte("rahasia-sesi"), time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/entry", nil)
	if _, ok := manager.Read(req); ok {
		t.Error("request without cookie read as logged in")
	}
}

func TestSessionDefaultTTL(t *testing.T) {
	manager := NewSessionManager([]byte("rahasia-sesi"), 0, false)
	if manager.ttl != 12*time.Hour {
		t.Errorf("default ttl = %v, want 12h", manager.ttl)
	}
}
