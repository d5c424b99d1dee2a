package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"savefood/models"
)

var ErrInvalidCSRF = errors.New("invalid csrf token")

func GenerateToken(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		zap.L().Fatal("Failed to generate token", zap.Error(err))
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// HashToken is the storage key for a session token. Raw cookie values never
// reach redis or postgres.
func HashToken(sessionToken string) string {
	sum := blake2b.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:])
}

// NewSession builds a fresh session for a user who just logged in.
func NewSession(r *http.Request, accessToken, email string, ttl time.Duration) *models.Session {
	now := time.Now().UTC()
	return &models.Session{
		SessionToken: GenerateToken(32),
		AccessToken:  accessToken,
		UserEmail:    email,
		CSRFToken:    GenerateToken(32),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		LastActivity: now,
		UserAgent:    GetUserAgent(r),
		IPAddress:    GetIP(r),
	}
}

// CheckCSRF compares the token sent with r against the session's.
// htmx sends it as a header, plain forms as a field.
func CheckCSRF(r *http.Request, s *models.Session) error {
	csrf := r.Header.Get("X-CSRF-Token")
	if csrf == "" {
		csrf = r.FormValue("csrf_token")
	}
	if csrf == "" || s == nil || s.CSRFToken == "" {
		return ErrInvalidCSRF
	}
	if subtle.ConstantTimeCompare([]byte(csrf), []byte(s.CSRFToken)) != 1 {
		return ErrInvalidCSRF
	}
	return nil
}

// TokenExpiry reads the exp claim of a JWT access token without verifying
// it. The backend owns the signing key, we only want the lifetime.
func TokenExpiry(accessToken string) (time.Time, bool) {
	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// SessionTTL is the time left on the access token, or fallback when the
// token carries no usable expiry.
func SessionTTL(accessToken string, fallback time.Duration, now time.Time) time.Duration {
	exp, ok := TokenExpiry(accessToken)
	if !ok || !exp.After(now) {
		return fallback
	}
	return exp.Sub(now)
}
