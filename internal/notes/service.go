package notes

import (
	"context"
	"errors"

	"log/slog"

	"taskforge/internal/auth"
	"taskforge/internal/tasks"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrForbidden    = errors.New("not authorized")
)

type NoteStore interface {
	Insert(ctx context.Context, n *Note) error
	Get(ctx context.Context, id int64) (*Note, error)
	List(ctx context.Context, f Filter) ([]Note, error)
	Delete(ctx context.Context, id int64) error
}

// TaskGetter loads the parent task for the existence and access checks.
type TaskGetter interface {
	Get(ctx context.Context, id int64) (*tasks.Task, error)
}

type Service struct {
	store  NoteStore
	tasks  TaskGetter
	logger *slog.Logger
}

func NewService(store NoteStore, taskStore TaskGetter, logger *slog.Logger) *Service {
	return &Service{store: store, tasks: taskStore, logger: logger}
}

// loadTask maps a missing parent task to ErrTaskNotFound before any
// authorization runs, so unauthorized callers still see 404 for tasks
// that do not exist.
func (s *Service) loadTask(ctx context.Context, taskID int64) (*tasks.Task, error) {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, tasks.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Create attaches a note to a task. Only the task's creator or assignee
// may comment; the author is always the acting identity.
func (s *Service) Create(ctx context.Context, actor *auth.User, taskID int64, content string) (*Note, error) {
	t, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !tasks.CanAccessNotes(actor, t) {
		return nil, ErrForbidden
	}
	n := &Note{
		Content: content,
		TaskID:  taskID,
		UserID:  actor.ID,
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) ListForTask(ctx context.Context, actor *auth.User, taskID int64) ([]Note, error) {
	t, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !tasks.CanAccessNotes(actor, t) {
		return nil, ErrForbidden
	}
	return s.store.List(ctx, Filter{TaskID: &taskID})
}

// ListVisible is the unscoped listing: everything for admins, own notes
// for everyone else.
func (s *Service) ListVisible(ctx context.Context, actor *auth.User) ([]Note, error) {
	f := Filter{}
	if !SeesAllNotes(actor) {
		f.AuthorID = &actor.ID
	}
	return s.store.List(ctx, f)
}

// Delete removes a note. Authorship is the only thing that counts here;
// admins cannot delete other people's notes.
func (s *Service) Delete(ctx context.Context, actor *auth.User, id int64) error {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanDelete(actor, n) {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("note deleted", "note_id", id, "by", actor.ID)
	return nil
}
