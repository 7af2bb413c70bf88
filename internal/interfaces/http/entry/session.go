package entry

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dwisurvei/webgis-seismik/internal/interfaces/http/common"
)

const sessionCookieName = "webgis_session"

type sessionClaims struct {
	jwt.RegisteredClaims
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// SessionManager signs and verifies the per-connection session cookie.
// The cookie is the only place session state lives; updating the GPS
// coordinate reissues it.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessionManager(secret []byte, ttl time.Duration, secure bool) *SessionManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionManager{secret: secret, ttl: ttl, secure: secure}
}

// Issue writes a fresh session cookie for the given state.
func (m *SessionManager) Issue(w http.ResponseWriter, session common.Session) error {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Latitude:  session.Latitude,
		Longitude: session.Longitude,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl / time.Second),
	})
	return nil
}

// Read decodes the session cookie. A missing, expired, or tampered cookie
// reads as logged out.
func (m *SessionManager) Read(r *http.Request) (common.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return common.Session{}, false
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid || claims.Subject == "" {
		return common.Session{}, false
	}

	return common.Session{
		Username:  claims.Subject,
		Latitude:  claims.Latitude,
		Longitude: claims.Longitude,
	}, true
}

// Clear drops the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Middleware gates the entry surface: requests without a valid session are
// sent to the login page. The decoded session rides along in the context.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := m.Read(r)
		if !ok {
			http.Redirect(w, r, "/entry/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(common.ContextWithSession(r.Context(), session)))
	})
}
