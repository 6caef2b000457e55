package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tasklio/tasklio-go/internal/core/domain"
	"github.com/tasklio/tasklio-go/internal/core/ports"
	"github.com/tasklio/tasklio-go/internal/pubsub"
)

// TodoState is the immutable snapshot published to collection observers.
// Todos is in backend order (reverse-chronological by insertion); the slice
// is replaced wholesale on every change, never mutated in place.
type TodoState struct {
	Todos        []domain.Todo
	Loading      bool
	ErrorMessage string
}

// TodoStore owns the todo collection state. All I/O goes through the
// injected TodoAPI; local state is reconciled from responses. Mutations are
// serialized per store; concurrent Load calls are deduplicated into a single
// fetch, which is safe because load is idempotent.
type TodoStore struct {
	api ports.TodoAPI
	log zerolog.Logger

	opMu   sync.Mutex
	mu     sync.Mutex
	state  TodoState
	topic  pubsub.Topic[TodoState]
	flight *inflight
	group  singleflight.Group
}

// NewTodoStore builds the store. The collection starts empty until the first
// Load.
func NewTodoStore(api ports.TodoAPI, log zerolog.Logger) *TodoStore {
	return &TodoStore{
		api:    api,
		log:    log,
		flight: newInflight(),
	}
}

// Subscribe registers an observer of collection state. The returned cancel
// function removes it.
func (s *TodoStore) Subscribe(fn func(TodoState)) (cancel func()) {
	return s.topic.Subscribe(fn)
}

// State returns the current snapshot.
func (s *TodoStore) State() TodoState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load replaces the whole collection with the backend's. On failure the
// error message is published and the previous collection is kept — stale
// data beats no data.
func (s *TodoStore) Load(ctx context.Context) error {
	_, err, _ := s.group.Do("load", func() (any, error) {
		s.opMu.Lock()
		defer s.opMu.Unlock()
		return nil, s.load(ctx)
	})
	return err
}

// load does the actual fetch. Callers must hold opMu.
func (s *TodoStore) load(ctx context.Context) error {
	s.update(func(st *TodoState) { st.Loading = true })

	cctx, done := s.flight.start(ctx)
	defer done()

	todos, err := s.api.ListTodos(cctx)
	if err != nil {
		s.update(func(st *TodoState) {
			st.Loading = false
			st.ErrorMessage = err.Error()
		})
		return err
	}

	s.update(func(st *TodoState) {
		st.Loading = false
		st.Todos = todos
		st.ErrorMessage = ""
	})
	s.log.Debug().Int("count", len(todos)).Msg("todos loaded")
	return nil
}

// Create asks the backend for a new todo and inserts the returned entity at
// the head of the local collection, without re-fetching.
func (s *TodoStore) Create(ctx context.Context, title, description string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	cctx, done := s.flight.start(ctx)
	defer done()

	todo, err := s.api.CreateTodo(cctx, title, description)
	if err != nil {
		s.update(func(st *TodoState) { st.ErrorMessage = err.Error() })
		return err
	}

	s.update(func(st *TodoState) {
		next := make([]domain.Todo, 0, len(st.Todos)+1)
		next = append(next, *todo)
		next = append(next, st.Todos...)
		st.Todos = next
		st.ErrorMessage = ""
	})
	s.log.Debug().Int64("id", todo.ID).Msg("todo created")
	return nil
}

// Update sends a partial patch and then re-fetches the whole collection.
// The update endpoint does not return the updated entity, so a full reload
// is the only way to guarantee the local copy matches server state.
func (s *TodoStore) Update(ctx context.Context, id int64, patch domain.TodoPatch) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	cctx, done := s.flight.start(ctx)
	defer done()

	if err := s.api.UpdateTodo(cctx, id, patch); err != nil {
		s.update(func(st *TodoState) { st.ErrorMessage = err.Error() })
		return err
	}
	done()

	return s.load(ctx)
}

// Delete removes the todo remotely, then locally by identity.
func (s *TodoStore) Delete(ctx context.Context, id int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	cctx, done := s.flight.start(ctx)
	defer done()

	if err := s.api.DeleteTodo(cctx, id); err != nil {
		s.update(func(st *TodoState) { st.ErrorMessage = err.Error() })
		return err
	}

	s.update(func(st *TodoState) {
		next := make([]domain.Todo, 0, len(st.Todos))
		for _, t := range st.Todos {
			if t.ID != id {
				next = append(next, t)
			}
		}
		st.Todos = next
		st.ErrorMessage = ""
	})
	s.log.Debug().Int64("id", id).Msg("todo deleted")
	return nil
}

// ToggleCompletion flips the completed flag of the given todo.
func (s *TodoStore) ToggleCompletion(ctx context.Context, todo domain.Todo) error {
	completed := !todo.Completed
	return s.Update(ctx, todo.ID, domain.TodoPatch{Completed: &completed})
}

// Close cancels all in-flight requests. The store must not be used after.
func (s *TodoStore) Close() {
	s.flight.close()
}

func (s *TodoStore) update(mutate func(*TodoState)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	s.mu.Unlock()
	s.topic.Publish(snapshot)
}
