package domain

// User models the authenticated account as reported by the backend.
// Replaced wholesale on every profile fetch, never field-patched.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session pairs the bearer token with the user it belongs to. The token is
// the only durable piece of state; the user is refreshed in memory.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
