package ports

import (
	"context"

	"github.com/tasklio/tasklio-go/internal/core/domain"
)

// AuthAPI is the authentication surface of the backend.
type AuthAPI interface {
	// Register creates an account and returns the backend's ack message.
	// Registration does not imply login.
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Profile(ctx context.Context) (*domain.User, error)
}

// TodoAPI is the todo CRUD surface of the backend. All calls require an
// authenticated session.
type TodoAPI interface {
	ListTodos(ctx context.Context) ([]domain.Todo, error)
	CreateTodo(ctx context.Context, title, description string) (*domain.Todo, error)
	// UpdateTodo sends a partial patch; the endpoint acks without returning
	// the updated entity.
	UpdateTodo(ctx context.Context, id int64, patch domain.TodoPatch) error
	DeleteTodo(ctx context.Context, id int64) error
}
