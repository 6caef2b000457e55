// Package tasklio is the Go client SDK for the Tasklio todo service.
//
// The SDK is three layers: a generic authenticated request pipeline against
// the REST backend, a session store owning login state and the persisted
// token, and a todo store owning the collection state. Both stores publish
// immutable snapshots to subscribers on every change.
//
// Typical use:
//
//	app, err := tasklio.New(ctx)
//	if err != nil { ... }
//	defer app.Close()
//
//	cancel := app.Session.Subscribe(func(st tasklio.SessionState) { render(st) })
//	defer cancel()
//
//	if app.Session.State().Bootstrapping {
//		_ = app.Session.Bootstrap(ctx)
//	}
package tasklio

import (
	"context"

	"github.com/tasklio/tasklio-go/internal/core/domain"
	"github.com/tasklio/tasklio-go/internal/core/service"
	"github.com/tasklio/tasklio-go/internal/infrastructure/rest"
	"github.com/tasklio/tasklio-go/internal/infrastructure/tokenstore"
	"github.com/tasklio/tasklio-go/internal/pkg/config"
	"github.com/tasklio/tasklio-go/pkg/logger"
)

// Re-exported core types, so embedders only import this package.
type (
	User         = domain.User
	Todo         = domain.Todo
	TodoPatch    = domain.TodoPatch
	Session      = domain.Session
	Error        = domain.Error
	ErrorKind    = domain.ErrorKind
	SessionState = service.SessionState
	TodoState    = service.TodoState
)

const (
	KindInvalidEndpoint      = domain.KindInvalidEndpoint
	KindEncoding             = domain.KindEncoding
	KindDecode               = domain.KindDecode
	KindUnauthorized         = domain.KindUnauthorized
	KindAuthenticationFailed = domain.KindAuthenticationFailed
	KindBadRequest           = domain.KindBadRequest
	KindForbidden            = domain.KindForbidden
	KindConflict             = domain.KindConflict
	KindServerError          = domain.KindServerError
	KindUnknownStatus        = domain.KindUnknownStatus
	KindAPI                  = domain.KindAPI
	KindConnectionFailed     = domain.KindConnectionFailed
)

// KindOf extracts the ErrorKind from err, or "" for foreign errors.
func KindOf(err error) ErrorKind { return domain.KindOf(err) }

// App is the composition root: one configured API client and the two state
// stores built on it. Construct exactly one per process.
type App struct {
	Session *service.SessionStore
	Todos   *service.TodoStore
}

// New resolves configuration (environment, dotenv file, defaults), wires the
// logger, the file-backed token store, the API client, and both stores.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	tokens := tokenstore.NewFileStore(cfg.TokenFile)
	api := rest.NewClient(cfg.BaseURL, cfg.Timeout, tokens, log)

	return &App{
		Session: service.NewSessionStore(api, tokens, log),
		Todos:   service.NewTodoStore(api, log),
	}, nil
}

// Close cancels all in-flight requests on both stores.
func (a *App) Close() {
	a.Session.Close()
	a.Todos.Close()
}
