package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"seva-backend/internal/models"
)

func (t *Tenant) CreateTask(ctx context.Context, input models.CreateTaskInput) (*models.Task, error) {
	if input.EventID != nil {
		if _, err := t.GetEvent(ctx, *input.EventID); err != nil {
			return nil, err
		}
	}

	query := `
		INSERT INTO tasks (id, organization_id, event_id, title, description, assignee_id, status, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, organization_id, event_id, title, description, assignee_id, status, due_at, is_archived, created_at
	`

	var task models.Task
	err := t.db.QueryRowContext(ctx, query,
		uuid.New().String(), t.orgID, input.EventID, input.Title, input.Description,
		input.AssigneeID, models.TaskOpen, input.DueAt,
	).Scan(&task.ID, &task.OrganizationID, &task.EventID, &task.Title, &task.Description,
		&task.AssigneeID, &task.Status, &task.DueAt, &task.IsArchived, &task.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (t *Tenant) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	query := `
		SELECT id, organization_id, event_id, title, description, assignee_id, status, due_at, is_archived, created_at
		FROM tasks
		WHERE id = $1 AND organization_id = $2
	`
	if err := t.db.GetContext(ctx, &task, query, id, t.orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (t *Tenant) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	query := `
		SELECT id, organization_id, event_id, title, description, assignee_id, status, due_at, is_archived, created_at
		FROM tasks
		WHERE organization_id = $1 AND NOT is_archived
		ORDER BY created_at DESC
	`
	if err := t.db.SelectContext(ctx, &tasks, query, t.orgID); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (t *Tenant) AssignTask(ctx context.Context, id string, assigneeID *string) (*models.Task, error) {
	var task models.Task
	err := t.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET assignee_id = $3
		WHERE id = $1 AND organization_id = $2 AND NOT is_archived
		RETURNING id, organization_id, event_id, title, description, assignee_id, status, due_at, is_archived, created_at
	`, id, t.orgID, assigneeID).
		Scan(&task.ID, &task.OrganizationID, &task.EventID, &task.Title, &task.Description,
			&task.AssigneeID, &task.Status, &task.DueAt, &task.IsArchived, &task.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (t *Tenant) SetTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.Task, error) {
	var task models.Task
	err := t.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET status = $3
		WHERE id = $1 AND organization_id = $2 AND NOT is_archived
		RETURNING id, organization_id, event_id, title, description, assignee_id, status, due_at, is_archived, created_at
	`, id, t.orgID, status).
		Scan(&task.ID, &task.OrganizationID, &task.EventID, &task.Title, &task.Description,
			&task.AssigneeID, &task.Status, &task.DueAt, &task.IsArchived, &task.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (t *Tenant) ArchiveTask(ctx context.Context, id string) error {
	return t.archiveRow(ctx, "tasks", id)
}
