package notes

import "time"

type Note struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter scopes a listing to one task, one author, or neither (all).
type Filter struct {
	TaskID   *int64
	AuthorID *int64
}
