package notes

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

const noteColumns = `id, content, task_id, user_id, created_at, updated_at`

func (s *Store) Insert(ctx context.Context, n *Note) error {
	const q = `
		INSERT INTO notes (content, task_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at
	`
	row := s.db.QueryRowContext(ctx, q, n.Content, n.TaskID, n.UserID, time.Now().UTC())
	return row.Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

func (s *Store) Get(ctx context.Context, id int64) (*Note, error) {
	const q = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	n := &Note{}
	err := s.db.QueryRowContext(ctx, q, id).
		Scan(&n.ID, &n.Content, &n.TaskID, &n.UserID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *Store) List(ctx context.Context, f Filter) ([]Note, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	idx := 1
	if f.TaskID != nil {
		clauses = append(clauses, "task_id = $"+strconv.Itoa(idx))
		args = append(args, *f.TaskID)
		idx++
	}
	if f.AuthorID != nil {
		clauses = append(clauses, "user_id = $"+strconv.Itoa(idx))
		args = append(args, *f.AuthorID)
		idx++
	}
	query := "SELECT " + noteColumns + " FROM notes WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Content, &n.TaskID, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM notes WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoteNotFound
	}
	return nil
}
