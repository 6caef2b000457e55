package domain

// Todo is a single item as owned by the backend. Identity (ID) is assigned
// remotely; the client never generates ids. Timestamps stay ISO-8601 strings
// because the backend is the single source of truth for them.
type Todo struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TodoPatch carries a partial update for a todo. Nil fields are left
// untouched by the backend.
type TodoPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}
