package handlers

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"savefood/backend"
	"savefood/metrics"
	"savefood/models"
	"savefood/utils"
)

const (
	msgFillBoth    = "Please fill out both fields."
	msgLoginFailed = "Login failed."

	reasonPurchase = "purchase"
)

// loginReasons are the messages shown above the login form when another
// page sent the user there.
var loginReasons = map[string]string{
	reasonPurchase: "Please log in to purchase a surprise bag.",
}

func loginURL(reason string) string {
	return "/login?" + url.Values{"reason": {reason}}.Encode()
}

func (a *App) LoginPage(w http.ResponseWriter, r *http.Request) {
	if SessionFrom(r.Context()).LoggedIn() {
		redirect(w, r, "/")
		return
	}
	data := a.pageData(r, "Login")
	data.Message = loginReasons[r.URL.Query().Get("reason")]
	a.render(w, "login.html", data)
}

// LoginSubmit exchanges the credentials for a backend access token and
// opens a session holding it.
func (a *App) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	if err := utils.RequireFields([]string{"email", "password"}, &email, &password); err != nil {
		writeInline(w, msgFillBoth)
		return
	}

	token, err := a.API.Login(r.Context(), models.Credentials{Email: email, Password: password})
	if err != nil {
		a.Logger.Info("Login failed", zap.String("email", email), zap.Error(err))
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		msg := backend.Detail(err)
		if msg == "" {
			msg = msgLoginFailed
		}
		writeInline(w, msg)
		return
	}

	ttl := utils.SessionTTL(token.AccessToken, a.SessionTTL, time.Now())
	s := utils.NewSession(r, token.AccessToken, email, ttl)
	if err := a.Sessions.Save(r.Context(), s, ttl); err != nil {
		a.Logger.Error("Error saving session", zap.Error(err))
		writeInline(w, "internal error. try again.")
		return
	}

	if old := SessionFrom(r.Context()); old != nil {
		if err := a.Sessions.Delete(r.Context(), old.SessionToken); err != nil {
			a.Logger.Warn("Error deleting previous session", zap.Error(err))
		}
	}

	utils.SetSessionCookies(w, s, a.CookieSecure)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	a.Logger.Info("User logged in", zap.String("email", email))

	redirect(w, r, "/")
}

// Logout forgets the session and its access token.
func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	if s := SessionFrom(r.Context()); s != nil {
		if err := utils.CheckCSRF(r, s); err != nil {
			a.Logger.Warn("Rejected logout", zap.Error(err))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if err := a.Sessions.Delete(r.Context(), s.SessionToken); err != nil {
			a.Logger.Error("Error deleting session", zap.Error(err))
		}
	}
	utils.ClearSessionCookies(w, a.CookieSecure)
	redirect(w, r, "/")
}
