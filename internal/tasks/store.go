package tasks

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const taskColumns = `id, title, description, status, priority, due_date, created_by, assigned_to, created_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*Task, error) {
	t := &Task{}
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.CreatedBy, &t.AssignedTo, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *Store) Insert(ctx context.Context, t *Task) error {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	const q = `
		INSERT INTO tasks (title, description, status, priority, due_date, created_by, assigned_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	row := s.db.QueryRowContext(ctx, q,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.DueDate,
		t.CreatedBy,
		t.AssignedTo,
		time.Now().UTC(),
	)
	return row.Scan(&t.ID, &t.CreatedAt)
}

func (s *Store) Get(ctx context.Context, id int64) (*Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) List(ctx context.Context, f Filter) ([]Task, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	idx := 1
	if f.InvolvedUserID != nil {
		clauses = append(clauses, "(created_by = $"+itoa(idx)+" OR assigned_to = $"+itoa(idx)+")")
		args = append(args, *f.InvolvedUserID)
		idx++
	}
	query := "SELECT " + taskColumns + " FROM tasks WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.DueDate, &t.CreatedBy, &t.AssignedTo, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Update applies only the fields present in upd and returns the stored
// row. id, created_by and created_at are never part of the SET list.
func (s *Store) Update(ctx context.Context, id int64, upd Update) (*Task, error) {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, col+" = $"+itoa(idx))
		args = append(args, val)
		idx++
	}
	if upd.Title.Set {
		add("title", upd.Title.Value)
	}
	if upd.Description.Set {
		add("description", upd.Description.Value)
	}
	if upd.Status.Set {
		add("status", upd.Status.Value)
	}
	if upd.Priority.Set {
		add("priority", upd.Priority.Value)
	}
	if upd.DueDate.Set {
		add("due_date", upd.DueDate.Value)
	}
	if upd.AssignedTo.Set {
		add("assigned_to", upd.AssignedTo.Value)
	}
	if len(sets) == 0 {
		return s.Get(ctx, id)
	}
	query := "UPDATE tasks SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + itoa(idx) + " RETURNING " + taskColumns
	args = append(args, id)
	return scanTask(s.db.QueryRowContext(ctx, query, args...))
}

// Delete removes the task; notes cascade at the schema level.
func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM tasks WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
