package tasks

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"taskforge/internal/auth"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrForbidden      = errors.New("not authorized")
)

// TaskStore is the slice of the persistence layer the service needs.
type TaskStore interface {
	Insert(ctx context.Context, t *Task) error
	Get(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, f Filter) ([]Task, error)
	Update(ctx context.Context, id int64, upd Update) (*Task, error)
	Delete(ctx context.Context, id int64) error
}

// IdentityStore resolves user ids for the admin member filter.
type IdentityStore interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

type Service struct {
	store  TaskStore
	users  IdentityStore
	logger *slog.Logger
}

func NewService(store TaskStore, users IdentityStore, logger *slog.Logger) *Service {
	return &Service{store: store, users: users, logger: logger}
}

type CreateInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *int64     `json:"assigned_to"`
}

// Create inserts a task owned by the actor. The creator is always the
// requesting identity; nothing the client sends can override it.
func (s *Service) Create(ctx context.Context, actor *auth.User, in CreateInput) (*Task, error) {
	t := &Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedBy:   actor.ID,
		AssignedTo:  in.AssignedTo,
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the tasks visible to the actor. Admins see everything, or
// every task a filtered member is involved in (as creator or assignee)
// when memberFilter is set. Non-admins always get their own involvement
// set; any filter they pass is ignored.
func (s *Service) List(ctx context.Context, actor *auth.User, memberFilter *int64) ([]Task, error) {
	f := Filter{}
	if actor.Role.IsAdmin() {
		if memberFilter != nil {
			if _, err := s.users.GetByID(ctx, *memberFilter); err != nil {
				if errors.Is(err, auth.ErrUserNotFound) {
					return nil, ErrMemberNotFound
				}
				return nil, err
			}
			f.InvolvedUserID = memberFilter
		}
	} else {
		f.InvolvedUserID = &actor.ID
	}
	return s.store.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, actor *auth.User, id int64) (*Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanRead(actor, t) {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, actor *auth.User, id int64, upd Update) (*Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanUpdate(actor, t) {
		return nil, ErrForbidden
	}
	// An empty patch is a no-op; skip the write but keep the same
	// existence and permission semantics as a real update.
	if upd.Empty() {
		return t, nil
	}
	return s.store.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, actor *auth.User, id int64) error {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanDelete(actor, t) {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", "task_id", id, "by", actor.ID)
	return nil
}
