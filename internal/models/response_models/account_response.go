package response_models

type AccountLoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type AccountResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type SessionResponse struct {
	User      AccountResponse `json:"user"`
	IsAdmin   bool            `json:"is_admin"`
	ExpiresAt string          `json:"expires_at"`
}
