package models

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is what the backend returns on a successful login
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type TagRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
