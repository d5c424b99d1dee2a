package utils

import (
	"context"
	"errors"
	"net/http"
	"time"

	"savefood/models"
)

const (
	SessionCookie = "session_token"
	CSRFCookie    = "csrf_token"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps sessions server side, keyed by the session cookie value.
type SessionStore interface {
	Save(ctx context.Context, s *models.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionToken string) (*models.Session, error)
	Delete(ctx context.Context, sessionToken string) error
	Touch(ctx context.Context, sessionToken string) error
}

func CookieExists(r *http.Request, name string) bool {
	st, err := r.Cookie(name)
	return err == nil && st.Value != ""
}

// GetUserAgent returns the User-Agent string from the request
func GetUserAgent(r *http.Request) string {
	return r.Header.Get("User-Agent")
}

// GetIP returns the IP address of the client from the request
func GetIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

// SetSessionCookies hands the session and csrf tokens to the browser.
func SetSessionCookies(w http.ResponseWriter, s *models.Session, secure bool) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 3600 * 24
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.SessionToken,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   maxAge,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookie,
		Value:    s.CSRFToken,
		HttpOnly: false, // read by htmx for the X-CSRF-Token header
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{SessionCookie, CSRFCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: name == SessionCookie,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
			MaxAge:   -1,
		})
	}
}
