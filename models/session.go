package models

import "time"

// Session struct for storing session data
type Session struct {
	SessionToken string    `json:"session_token"`
	AccessToken  string    `json:"access_token"`
	UserEmail    string    `json:"user_email"`
	CSRFToken    string    `json:"csrf_token"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
	UserAgent    string    `json:"user_agent"`
	IPAddress    string    `json:"ip_address"`
}

// LoggedIn reports whether the session carries a backend access token.
func (s *Session) LoggedIn() bool {
	return s != nil && s.AccessToken != ""
}
