package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"log/slog"

	"taskforge/internal/auth"
)

type fakeTaskStore struct {
	nextID  int64
	byID    map[int64]Task
	updates int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{byID: map[int64]Task{}}
}

func (f *fakeTaskStore) Insert(ctx context.Context, t *Task) error {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now().UTC()
	f.byID[t.ID] = *t
	return nil
}

func (f *fakeTaskStore) Get(ctx context.Context, id int64) (*Task, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return &t, nil
}

func (f *fakeTaskStore) List(ctx context.Context, flt Filter) ([]Task, error) {
	var out []Task
	for id := int64(1); id <= f.nextID; id++ {
		t, ok := f.byID[id]
		if !ok {
			continue
		}
		if flt.InvolvedUserID != nil {
			m := *flt.InvolvedUserID
			if t.CreatedBy != m && (t.AssignedTo == nil || *t.AssignedTo != m) {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskStore) Update(ctx context.Context, id int64, upd Update) (*Task, error) {
	f.updates++
	t, ok := f.byID[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	if upd.Title.Set && upd.Title.Value != nil {
		t.Title = *upd.Title.Value
	}
	if upd.Description.Set {
		t.Description = upd.Description.Value
	}
	if upd.Status.Set && upd.Status.Value != nil {
		t.Status = *upd.Status.Value
	}
	if upd.Priority.Set && upd.Priority.Value != nil {
		t.Priority = *upd.Priority.Value
	}
	if upd.DueDate.Set {
		t.DueDate = upd.DueDate.Value
	}
	if upd.AssignedTo.Set {
		t.AssignedTo = upd.AssignedTo.Value
	}
	f.byID[id] = t
	return &t, nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return ErrTaskNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeIdentityStore struct {
	byID map[int64]*auth.User
}

func (f *fakeIdentityStore) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func newTestService(users ...*auth.User) (*Service, *fakeTaskStore) {
	store := newFakeTaskStore()
	ids := &fakeIdentityStore{byID: map[int64]*auth.User{}}
	for _, u := range users {
		ids.byID[u.ID] = u
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, ids, logger), store
}

func TestCreateForcesCreator(t *testing.T) {
	member := user(1, auth.RoleMember)
	svc, _ := newTestService(member)

	created, err := svc.Create(context.Background(), member, CreateInput{Title: "X"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedBy != 1 {
		t.Fatalf("creator = %d, want 1", created.CreatedBy)
	}
	if created.AssignedTo != nil {
		t.Fatalf("assignee = %v, want nil", *created.AssignedTo)
	}
	if created.Status != StatusPending || created.Priority != PriorityMedium {
		t.Fatalf("defaults not applied: %s/%s", created.Status, created.Priority)
	}
}

func TestGetDeniedForStranger(t *testing.T) {
	member := user(1, auth.RoleMember)
	stranger := user(2, auth.RoleMember)
	svc, _ := newTestService(member, stranger)

	created, _ := svc.Create(context.Background(), member, CreateInput{Title: "X"})

	if _, err := svc.Get(context.Background(), stranger, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	// Missing tasks report NotFound before any permission check.
	if _, err := svc.Get(context.Background(), stranger, 9999); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestAdminListWithMemberFilter(t *testing.T) {
	member := user(1, auth.RoleMember)
	other := user(2, auth.RoleMember)
	admin := user(99, auth.RoleAdmin)
	svc, _ := newTestService(member, other, admin)

	ctx := context.Background()
	mine, _ := svc.Create(ctx, member, CreateInput{Title: "mine"})
	assigned, _ := svc.Create(ctx, other, CreateInput{Title: "assigned to member", AssignedTo: ptr(1)})
	svc.Create(ctx, other, CreateInput{Title: "unrelated"})

	// Filter is a union over creator and assignee.
	got, err := svc.List(ctx, admin, ptr(1))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got))
	}
	if got[0].ID != mine.ID || got[1].ID != assigned.ID {
		t.Fatalf("wrong tasks: %d, %d", got[0].ID, got[1].ID)
	}

	// No filter: admin sees everything.
	all, _ := svc.List(ctx, admin, nil)
	if len(all) != 3 {
		t.Fatalf("got %d tasks, want 3", len(all))
	}

	// Nonexistent filter target.
	if _, err := svc.List(ctx, admin, ptr(1234)); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestNonAdminListIgnoresFilter(t *testing.T) {
	member := user(1, auth.RoleMember)
	other := user(2, auth.RoleMember)
	svc, _ := newTestService(member, other)

	ctx := context.Background()
	svc.Create(ctx, member, CreateInput{Title: "mine"})
	svc.Create(ctx, other, CreateInput{Title: "theirs"})

	got, err := svc.List(ctx, member, ptr(2))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].CreatedBy != 1 {
		t.Fatalf("non-admin filter leaked: %+v", got)
	}
}

func TestAssigneeCanUpdateButNotDelete(t *testing.T) {
	creator := user(1, auth.RoleMember)
	assignee := user(2, auth.RoleMember)
	svc, _ := newTestService(creator, assignee)

	ctx := context.Background()
	created, _ := svc.Create(ctx, creator, CreateInput{Title: "X", AssignedTo: ptr(2)})

	status := StatusInProgress
	updated, err := svc.Update(ctx, assignee, created.ID, Update{
		Status: Optional[Status]{Set: true, Value: &status},
	})
	if err != nil {
		t.Fatalf("assignee update: %v", err)
	}
	if updated.Status != StatusInProgress {
		t.Fatalf("status = %s", updated.Status)
	}

	if err := svc.Delete(ctx, assignee, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("assignee delete err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, creator, created.ID); err != nil {
		t.Fatalf("creator delete: %v", err)
	}
	// Already gone: NotFound no matter how often it is retried.
	if err := svc.Delete(ctx, creator, created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("second delete err = %v, want ErrTaskNotFound", err)
	}
}

func TestPartialUpdateLeavesAbsentFieldsAlone(t *testing.T) {
	creator := user(1, auth.RoleMember)
	svc, store := newTestService(creator)

	ctx := context.Background()
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	desc := "ship it"
	created, _ := svc.Create(ctx, creator, CreateInput{
		Title:       "X",
		Description: &desc,
		Priority:    PriorityHigh,
		DueDate:     &due,
	})

	title := "Y"
	updated, err := svc.Update(ctx, creator, created.ID, Update{
		Title: Optional[string]{Set: true, Value: &title},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Y" {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.Description == nil || *updated.Description != "ship it" {
		t.Fatal("description should be untouched")
	}
	if updated.Priority != PriorityHigh || updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Fatal("absent fields were mutated")
	}
	if updated.CreatedBy != created.CreatedBy || updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("immutable fields changed")
	}

	// An explicit null is applied, not ignored.
	_, err = svc.Update(ctx, creator, created.ID, Update{
		DueDate: Optional[time.Time]{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("null update: %v", err)
	}
	stored, _ := store.Get(ctx, created.ID)
	if stored.DueDate != nil {
		t.Fatal("explicit null should clear due date")
	}
}

func TestEmptyUpdateIsANoOp(t *testing.T) {
	creator := user(1, auth.RoleMember)
	stranger := user(3, auth.RoleMember)
	svc, store := newTestService(creator, stranger)

	ctx := context.Background()
	created, _ := svc.Create(ctx, creator, CreateInput{Title: "X"})

	got, err := svc.Update(ctx, creator, created.ID, Update{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if got.Title != "X" || got.ID != created.ID {
		t.Fatalf("task changed: %+v", got)
	}
	if store.updates != 0 {
		t.Fatalf("store.Update called %d times, want 0", store.updates)
	}

	// Emptiness does not weaken the checks.
	if _, err := svc.Update(ctx, stranger, created.ID, Update{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Update(ctx, creator, 9999, Update{}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("missing task err = %v, want ErrTaskNotFound", err)
	}
}

func TestUpdateDecodeDistinguishesNullFromAbsent(t *testing.T) {
	var upd Update
	if err := json.Unmarshal([]byte(`{"title":"Y","due_date":null}`), &upd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !upd.Title.Set || upd.Title.Value == nil || *upd.Title.Value != "Y" {
		t.Fatalf("title not decoded: %+v", upd.Title)
	}
	if !upd.DueDate.Set || upd.DueDate.Value != nil {
		t.Fatalf("explicit null not detected: %+v", upd.DueDate)
	}
	if upd.Status.Set || upd.AssignedTo.Set {
		t.Fatal("absent fields should stay unset")
	}
}
