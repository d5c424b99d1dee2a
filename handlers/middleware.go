package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"savefood/models"
	"savefood/utils"
)

type sessionKey struct{}

// errNoSession marks requests that need a logged in user but carry none.
var errNoSession = errors.New("no active session")

func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session loaded for this request, or nil.
func SessionFrom(ctx context.Context) *models.Session {
	s, _ := ctx.Value(sessionKey{}).(*models.Session)
	return s
}

// requireSession returns the logged in session or errNoSession.
func requireSession(r *http.Request) (*models.Session, error) {
	s := SessionFrom(r.Context())
	if !s.LoggedIn() {
		return nil, errNoSession
	}
	return s, nil
}

// SessionMiddleware resolves the session cookie against the store and puts
// the session on the request context. Stale cookies are cleared.
func (a *App) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !utils.CookieExists(r, utils.SessionCookie) {
			next.ServeHTTP(w, r)
			return
		}
		st, _ := r.Cookie(utils.SessionCookie)

		s, err := a.Sessions.Get(r.Context(), st.Value)
		switch {
		case errors.Is(err, utils.ErrSessionNotFound):
			utils.ClearSessionCookies(w, a.CookieSecure)
			next.ServeHTTP(w, r)
			return
		case err != nil:
			a.Logger.Error("Error loading session", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if err := a.Sessions.Touch(r.Context(), st.Value); err != nil {
			a.Logger.Warn("Error updating last activity", zap.Error(err))
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// LoggingMiddleware logs the details of each HTTP request
func (a *App) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)
		a.Logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", utils.GetIP(r)),
			zap.Bool("htmx", isHTMX(r)),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// SecurityHeadersMiddleware adds standard security headers
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		// htmx is loaded from unpkg
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; script-src 'self' 'unsafe-inline' https://unpkg.com")
		next.ServeHTTP(w, r)
	})
}
