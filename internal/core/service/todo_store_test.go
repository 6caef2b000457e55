package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tasklio/tasklio-go/internal/core/domain"
)

type stubTodoAPI struct {
	todos      []domain.Todo
	listErr    error
	listCalls  int
	created    *domain.Todo
	createErr  error
	updateErr  error
	deleteErr  error
	lastPatch  domain.TodoPatch
	lastUpdate int64
}

func (a *stubTodoAPI) ListTodos(context.Context) ([]domain.Todo, error) {
	a.listCalls++
	if a.listErr != nil {
		return nil, a.listErr
	}
	out := make([]domain.Todo, len(a.todos))
	copy(out, a.todos)
	return out, nil
}

func (a *stubTodoAPI) CreateTodo(context.Context, string, string) (*domain.Todo, error) {
	if a.createErr != nil {
		return nil, a.createErr
	}
	return a.created, nil
}

func (a *stubTodoAPI) UpdateTodo(_ context.Context, id int64, patch domain.TodoPatch) error {
	a.lastUpdate = id
	a.lastPatch = patch
	return a.updateErr
}

func (a *stubTodoAPI) DeleteTodo(context.Context, int64) error {
	return a.deleteErr
}

func sampleTodos() []domain.Todo {
	return []domain.Todo{
		{ID: 42, UserID: 1, Title: "Buy milk", Description: "2%"},
		{ID: 7, UserID: 1, Title: "Walk dog"},
	}
}

func TestTodoStore_Load(t *testing.T) {
	api := &stubTodoAPI{todos: sampleTodos()}
	store := NewTodoStore(api, zerolog.Nop())

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	state := store.State()
	if len(state.Todos) != 2 || state.Todos[0].ID != 42 {
		t.Fatalf("unexpected todos: %+v", state.Todos)
	}
	if state.Loading || state.ErrorMessage != "" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestTodoStore_Load_Idempotent(t *testing.T) {
	api := &stubTodoAPI{todos: sampleTodos()}
	store := NewTodoStore(api, zerolog.Nop())

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	first := store.State().Todos

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	second := store.State().Todos

	if len(first) != len(second) {
		t.Fatalf("expected identical collections, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("collection diverged at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTodoStore_Load_Failure_PreservesStale(t *testing.T) {
	api := &stubTodoAPI{todos: sampleTodos()}
	store := NewTodoStore(api, zerolog.Nop())

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	api.listErr = domain.NewConnectionError("no network connection", nil)
	if err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}

	state := store.State()
	if state.ErrorMessage != "no network connection" {
		t.Fatalf("unexpected error message: %q", state.ErrorMessage)
	}
	if len(state.Todos) != 2 {
		t.Fatalf("stale collection must be preserved, got %+v", state.Todos)
	}
}

func TestTodoStore_Create_InsertsAtHead(t *testing.T) {
	api := &stubTodoAPI{
		todos:   []domain.Todo{{ID: 7, Title: "Walk dog"}},
		created: &domain.Todo{ID: 42, UserID: 1, Title: "Buy milk", Description: "2%"},
	}
	store := NewTodoStore(api, zerolog.Nop())

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	listCallsAfterLoad := api.listCalls

	if err := store.Create(context.Background(), "Buy milk", "2%"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	state := store.State()
	if len(state.Todos) != 2 || state.Todos[0].ID != 42 {
		t.Fatalf("expected new todo at head, got %+v", state.Todos)
	}
	if api.listCalls != listCallsAfterLoad {
		t.Fatalf("create must not re-fetch the collection")
	}
}

func TestTodoStore_Create_Failure(t *testing.T) {
	api := &stubTodoAPI{createErr: domain.NewError(domain.KindBadRequest, "missing title")}
	store := NewTodoStore(api, zerolog.Nop())

	if err := store.Create(context.Background(), "", ""); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if got := store.State().ErrorMessage; got != "missing title" {
		t.Fatalf("unexpected error message: %q", got)
	}
}

func TestTodoStore_Update_ReloadsCollection(t *testing.T) {
	api := &stubTodoAPI{todos: sampleTodos()}
	store := NewTodoStore(api, zerolog.Nop())

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// The backend acks without returning the entity; the store must
	// re-fetch to reconcile.
	api.todos[0].Completed = true
	title := "Buy oat milk"
	if err := store.Update(context.Background(), 42, domain.TodoPatch{Title: &title}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if api.lastUpdate != 42 || api.lastPatch.Title == nil || *api.lastPatch.Title != "Buy oat milk" {
		t.Fatalf("unexpected patch sent: id=%d patch=%+v", api.lastUpdate, api.lastPatch)
	}
	if api.listCalls != 2 {
		t.Fatalf("expected reload after update, got %d list calls", api.listCalls)
	}
	if !store.State().Todos[0].Completed {
		t.Fatalf("expected reconciled collection from backend")
	}
}

func TestTodoStore_Delete_RemovesById(t *testing.T) {
	api := &stubTodoAPI{todos: sampleTodos()}
	store := NewTodoStore(api, zerolog.Nop())

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := store.Delete(context.Background(), 42); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	for _, todo := range store.State().Todos {
		if todo.ID == 42 {
			t.Fatalf("todo 42 still present: %+v", store.State().Todos)
		}
	}
	if len(store.State().Todos) != 1 {
		t.Fatalf("unexpected collection: %+v", store.State().Todos)
	}
}

func TestTodoStore_ToggleCompletion(t *testing.T) {
	api := &stubTodoAPI{todos: sampleTodos()}
	store := NewTodoStore(api, zerolog.Nop())

	todo := domain.Todo{ID: 42, Completed: false}
	if err := store.ToggleCompletion(context.Background(), todo); err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}

	if api.lastUpdate != 42 {
		t.Fatalf("unexpected id: %d", api.lastUpdate)
	}
	if api.lastPatch.Completed == nil || !*api.lastPatch.Completed {
		t.Fatalf("expected completed=true patch, got %+v", api.lastPatch)
	}
	if api.lastPatch.Title != nil || api.lastPatch.Description != nil {
		t.Fatalf("toggle must only patch completed, got %+v", api.lastPatch)
	}
}
