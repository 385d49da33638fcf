package models

import "time"

type TaskStatus string

const (
	TaskOpen       TaskStatus = "OPEN"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone:
		return true
	}
	return false
}

type CreateTaskInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	EventID     *string    `json:"event_id"`
	AssigneeID  *string    `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

type Task struct {
	ID             string     `db:"id" json:"id"`
	OrganizationID string     `db:"organization_id" json:"organization_id"`
	EventID        *string    `db:"event_id" json:"event_id,omitempty"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	AssigneeID     *string    `db:"assignee_id" json:"assignee_id,omitempty"`
	Status         TaskStatus `db:"status" json:"status"`
	DueAt          *time.Time `db:"due_at" json:"due_at,omitempty"`
	IsArchived     bool       `db:"is_archived" json:"is_archived"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
