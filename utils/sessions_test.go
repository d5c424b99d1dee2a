package utils_test

import (
	"net/http"
	"net/http/httptest"
	"savefood/models"
	"savefood/utils"
	"testing"
	"time"
)

func TestCookieExists(t *testing.T) {
	tests := []struct {
		name       string
		setupReq   func() *http.Request
		cookieName string
		want       bool
	}{
		{
			name: "Cookie exists with value",
			setupReq: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: "abc123"})
				return req
			},
			cookieName: utils.SessionCookie,
			want:       true,
		},
		{
			name: "Cookie exists but empty value",
			setupReq: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: ""})
				return req
			},
			cookieName: utils.SessionCookie,
			want:       false,
		},
		{
			name: "Cookie doesn't exist",
			setupReq: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/", nil)
			},
			cookieName: utils.SessionCookie,
			want:       false,
		},
		{
			name: "Only the csrf cookie exists",
			setupReq: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.AddCookie(&http.Cookie{Name: utils.CSRFCookie, Value: "xyz789"})
				return req
			},
			cookieName: utils.SessionCookie,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.setupReq()
			if got := utils.CookieExists(req, tt.cookieName); got != tt.want {
				t.Errorf("CookieExists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		remoteAddr   string
		want         string
	}{
		{name: "IP from X-Forwarded-For", forwardedFor: "203.0.113.195", remoteAddr: "192.168.1.1:12345", want: "203.0.113.195"},
		{name: "IP from RemoteAddr", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1:12345"},
		{name: "IPv6 address", forwardedFor: "2001:db8:85a3::8a2e:370:7334", remoteAddr: "10.0.0.1:1", want: "2001:db8:85a3::8a2e:370:7334"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}
			if got := utils.GetIP(req); got != tt.want {
				t.Errorf("GetIP() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetUserAgent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 13_2_3 like Mac OS X)")

	if got := utils.GetUserAgent(req); got != "Mozilla/5.0 (iPhone; CPU iPhone OS 13_2_3 like Mac OS X)" {
		t.Errorf("GetUserAgent() = %v", got)
	}
}

func TestSessionCookies(t *testing.T) {
	s := &models.Session{SessionToken: "st", CSRFToken: "ct", ExpiresAt: time.Now().Add(time.Hour)}

	rr := httptest.NewRecorder()
	utils.SetSessionCookies(rr, s, true)

	cookies := map[string]*http.Cookie{}
	for _, c := range rr.Result().Cookies() {
		cookies[c.Name] = c
	}
	if c := cookies[utils.SessionCookie]; c == nil || c.Value != "st" || !c.HttpOnly || !c.Secure {
		t.Fatalf("session cookie not set as expected: %+v", c)
	}
	if c := cookies[utils.CSRFCookie]; c == nil || c.Value != "ct" || c.HttpOnly {
		t.Fatalf("csrf cookie not set as expected: %+v", c)
	}
	if c := cookies[utils.SessionCookie]; c.MaxAge <= 0 || c.MaxAge > 3600 {
		t.Errorf("session cookie MaxAge = %d, want within the hour", c.MaxAge)
	}

	rr = httptest.NewRecorder()
	utils.ClearSessionCookies(rr, false)
	for _, c := range rr.Result().Cookies() {
		if c.Value != "" || c.MaxAge >= 0 {
			t.Errorf("cookie %s not cleared: %+v", c.Name, c)
		}
	}
}
