package model

// User is the authenticated account as returned by the backend.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session holds the logged-in user and bearer token. It is persisted to the
// client store at login and removed at logout or failed refresh.
type Session struct {
	User      User   `json:"user"`
	AuthToken string `json:"auth_token"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the backend response for login and token refresh.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
