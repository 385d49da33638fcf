package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"seva-backend/internal/models"
)

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "create task org_id="+orgID)
		return
	}

	var input models.CreateTaskInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		respondError(w, http.StatusBadRequest, "title required")
		return
	}

	task, err := h.storage.Tenant(orgID).CreateTask(r.Context(), input)
	if err != nil {
		respondDomainError(w, err, "create task org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "list tasks org_id="+orgID)
		return
	}

	tasks, err := h.storage.Tenant(orgID).ListTasks(r.Context())
	if err != nil {
		respondDomainError(w, err, "list tasks org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "get task org_id="+orgID)
		return
	}

	task, err := h.storage.Tenant(orgID).GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err, "get task org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

type assignTaskRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

func (h *Handler) AssignTask(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "assign task org_id="+orgID)
		return
	}

	var req assignTaskRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	task, err := h.storage.Tenant(orgID).AssignTask(r.Context(), chi.URLParam(r, "id"), req.AssigneeID)
	if err != nil {
		respondDomainError(w, err, "assign task org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

type taskStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// SetTaskStatus lets any active member move a task; volunteers update
// their own work.
func (h *Handler) SetTaskStatus(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "set task status org_id="+orgID)
		return
	}

	var req taskStatusRequest
	if err := decodeBody(r, &req); err != nil || !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "valid status required")
		return
	}

	task, err := h.storage.Tenant(orgID).SetTaskStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondDomainError(w, err, "set task status org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *Handler) ArchiveTask(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "archive task org_id="+orgID)
		return
	}

	if err := h.storage.Tenant(orgID).ArchiveTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err, "archive task org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}
