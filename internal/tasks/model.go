package tasks

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedBy   int64      `json:"created_by"`
	AssignedTo  *int64     `json:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Optional distinguishes "field absent from the request" from "field
// explicitly set to null". Absent fields are left untouched by updates;
// an explicit null clears the stored value.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Update is a sparse patch. ID, creator and creation timestamp are not
// representable here on purpose.
type Update struct {
	Title       Optional[string]    `json:"title"`
	Description Optional[string]    `json:"description"`
	Status      Optional[Status]    `json:"status"`
	Priority    Optional[Priority]  `json:"priority"`
	DueDate     Optional[time.Time] `json:"due_date"`
	AssignedTo  Optional[int64]     `json:"assigned_to"`
}

func (u Update) Empty() bool {
	return !u.Title.Set && !u.Description.Set && !u.Status.Set &&
		!u.Priority.Set && !u.DueDate.Set && !u.AssignedTo.Set
}

// Filter narrows a listing to tasks a given user is involved in, as
// creator or as assignee.
type Filter struct {
	InvolvedUserID *int64
}
