package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasklio/tasklio-go/internal/core/domain"
	"github.com/tasklio/tasklio-go/internal/core/ports"
	"github.com/tasklio/tasklio-go/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// Backend endpoint table. Every endpoint is POST regardless of semantic
// verb; the backend only routes on path.
const (
	endpointRegister   = "/api/register"
	endpointLogin      = "/api/login"
	endpointProfile    = "/api/profile"
	endpointTodoList   = "/api/todos/list"
	endpointTodoCreate = "/api/todos/create"
	endpointTodoUpdate = "/api/todos/update"
	endpointTodoDelete = "/api/todos/delete"
)

// Client talks to the Tasklio backend. It is an explicitly constructed,
// injected dependency of the stores — there is no package-level instance.
// Client implements ports.AuthAPI and ports.TodoAPI.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenStore
	log     zerolog.Logger
}

// NewClient builds a Client for the given base URL. timeout <= 0 falls back
// to the transport default.
func NewClient(baseURL string, timeout time.Duration, tokens ports.TokenStore, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

var (
	_ ports.AuthAPI = (*Client)(nil)
	_ ports.TodoAPI = (*Client)(nil)
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTodoRequest struct {
	ID          int64   `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

type deleteTodoRequest struct {
	ID int64 `json:"id"`
}

// emptyRequest serializes to "{}" for endpoints that take no parameters.
type emptyRequest struct{}

// Register creates an account and returns the backend's ack message.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	payload := registerRequest{Username: username, Email: email, Password: password}
	_, msg, err := do[json.RawMessage](ctx, c, endpointRegister, payload, false)
	return msg, err
}

// Login authenticates and returns the session. The token is not persisted
// here; the session store owns all token writes.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	session, _, err := do[domain.Session](ctx, c, endpointLogin, loginRequest{Username: username, Password: password}, false)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Profile fetches the current user for the stored token.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	user, _, err := do[domain.User](ctx, c, endpointProfile, emptyRequest{}, true)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListTodos fetches the full todo collection in backend order.
func (c *Client) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	todos, _, err := do[[]domain.Todo](ctx, c, endpointTodoList, emptyRequest{}, true)
	return todos, err
}

// CreateTodo creates a todo and returns the server-assigned entity.
func (c *Client) CreateTodo(ctx context.Context, title, description string) (*domain.Todo, error) {
	todo, _, err := do[domain.Todo](ctx, c, endpointTodoCreate, createTodoRequest{Title: title, Description: description}, true)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo sends a partial patch. The endpoint acks without returning the
// updated entity, so callers re-fetch to reconcile.
func (c *Client) UpdateTodo(ctx context.Context, id int64, patch domain.TodoPatch) error {
	payload := updateTodoRequest{
		ID:          id,
		Title:       patch.Title,
		Description: patch.Description,
		Completed:   patch.Completed,
	}
	_, _, err := do[json.RawMessage](ctx, c, endpointTodoUpdate, payload, true)
	return err
}

// DeleteTodo deletes the todo with the given id.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	_, _, err := do[json.RawMessage](ctx, c, endpointTodoDelete, deleteTodoRequest{ID: id}, true)
	return err
}

// do is the generic request pipeline shared by every endpoint: serialize,
// attach the bearer token when required, build, send, classify, decode.
// It is a function rather than a method because methods cannot introduce
// type parameters.
func do[T any](ctx context.Context, c *Client, endpoint string, payload any, requiresAuth bool) (T, string, error) {
	var zero T
	start := time.Now()

	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return zero, "", c.fail(endpoint, start, domain.NewError(domain.KindEncoding, "failed to encode request"))
		}
		body = b
	}

	token := ""
	if requiresAuth {
		// A missing token is not a local precondition failure: the request
		// goes out without Authorization and the backend rejects it.
		if t, err := c.tokens.Load(ctx); err == nil {
			token = t
		} else {
			c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("token store read failed")
		}
	}

	req, err := newRequest(ctx, c.baseURL, endpoint, http.MethodPost, body, token)
	if err != nil {
		return zero, "", c.fail(endpoint, start, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, "", c.fail(endpoint, start, mapTransportError(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, "", c.fail(endpoint, start, mapTransportError(err))
	}

	out, msg, err := decode[T](resp.StatusCode, raw)
	if err != nil {
		if domain.KindOf(err) == domain.KindDecode {
			metrics.DecodeFailuresTotal.WithLabelValues(endpoint).Inc()
		}
		return zero, "", c.fail(endpoint, start, err)
	}

	metrics.RequestsTotal.WithLabelValues(endpoint, "success").Inc()
	metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	c.log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")
	return out, msg, nil
}

// fail records metrics and logging for a failed request and returns err.
func (c *Client) fail(endpoint string, start time.Time, err error) error {
	outcome := string(domain.KindOf(err))
	if outcome == "" {
		outcome = "error"
	}
	metrics.RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	c.log.Error().Err(err).Str("endpoint", endpoint).Str("outcome", outcome).Msg("request failed")
	return err
}
