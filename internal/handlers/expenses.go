package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"seva-backend/internal/models"
)

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	m, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "create expense org_id="+orgID)
		return
	}

	var input models.CreateExpenseInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || !input.Category.Valid() {
		respondError(w, http.StatusBadRequest, "title and a valid category required")
		return
	}

	e, err := h.storage.Tenant(orgID).CreateExpense(r.Context(), m.UserID, input)
	if err != nil {
		respondDomainError(w, err, "create expense org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusCreated, e)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "list expenses org_id="+orgID)
		return
	}

	expenses, err := h.storage.Tenant(orgID).ListExpenses(r.Context())
	if err != nil {
		respondDomainError(w, err, "list expenses org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "get expense org_id="+orgID)
		return
	}

	e, err := h.storage.Tenant(orgID).GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err, "get expense org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "update expense org_id="+orgID)
		return
	}

	var input models.CreateExpenseInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(input.Title) == "" || !input.Category.Valid() {
		respondError(w, http.StatusBadRequest, "title and a valid category required")
		return
	}

	e, err := h.storage.Tenant(orgID).UpdateExpense(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondDomainError(w, err, "update expense org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, e)
}

// ApproveExpense requires ADMIN or TREASURER explicitly; neither role
// implies the other.
func (h *Handler) ApproveExpense(w http.ResponseWriter, r *http.Request) {
	h.setExpenseStatus(w, r, models.ExpenseApproved)
}

func (h *Handler) RejectExpense(w http.ResponseWriter, r *http.Request) {
	h.setExpenseStatus(w, r, models.ExpenseRejected)
}

func (h *Handler) setExpenseStatus(w http.ResponseWriter, r *http.Request, status models.ExpenseStatus) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer)
	if err != nil {
		respondDomainError(w, err, "set expense status org_id="+orgID)
		return
	}

	e, err := h.storage.Tenant(orgID).SetExpenseStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		respondDomainError(w, err, "set expense status org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, e)
}

func (h *Handler) ArchiveExpense(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "archive expense org_id="+orgID)
		return
	}

	if err := h.storage.Tenant(orgID).ArchiveExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err, "archive expense org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}
