package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"savefood/models"
)

// Login exchanges credentials for an access token. The form encoding follows
// the OAuth2 password flow and sends the email as "username".
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Token, error) {
	var (
		req request
		err error
	)
	switch c.loginEncoding {
	case EncodingJSON:
		req, err = jsonRequest(http.MethodPost, "/auth/login", creds)
		if err != nil {
			return nil, err
		}
	default:
		form := url.Values{}
		form.Set("username", creds.Email)
		form.Set("password", creds.Password)
		req = request{
			method:      http.MethodPost,
			path:        "/auth/login",
			body:        strings.NewReader(form.Encode()),
			contentType: "application/x-www-form-urlencoded",
		}
	}

	var token models.Token
	if err := c.do(ctx, req, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response has no access_token", ErrDecode)
	}
	return &token, nil
}
