package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"seva-backend/internal/finance"
	"seva-backend/internal/models"
)

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "create event org_id="+orgID)
		return
	}

	var input models.CreateEventInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.EndsAt.Before(input.StartsAt) {
		respondError(w, http.StatusBadRequest, "name and a valid schedule window required")
		return
	}
	if input.BudgetTarget.Valid && input.BudgetTarget.Decimal.IsNegative() {
		respondError(w, http.StatusBadRequest, "budget target cannot be negative")
		return
	}

	e, err := h.storage.Tenant(orgID).CreateEvent(r.Context(), input)
	if err != nil {
		respondDomainError(w, err, "create event org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusCreated, e)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "list events org_id="+orgID)
		return
	}

	events, err := h.storage.Tenant(orgID).ListEvents(r.Context())
	if err != nil {
		respondDomainError(w, err, "list events org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "get event org_id="+orgID)
		return
	}

	e, err := h.storage.Tenant(orgID).GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err, "get event org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "update event org_id="+orgID)
		return
	}

	var input models.CreateEventInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(input.Name) == "" || input.EndsAt.Before(input.StartsAt) {
		respondError(w, http.StatusBadRequest, "name and a valid schedule window required")
		return
	}

	e, err := h.storage.Tenant(orgID).UpdateEvent(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondDomainError(w, err, "update event org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, e)
}

func (h *Handler) ArchiveEvent(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "archive event org_id="+orgID)
		return
	}

	if err := h.storage.Tenant(orgID).ArchiveEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err, "archive event org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

// EventSummary serves the per-event financial projection to active
// members.
func (h *Handler) EventSummary(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "event summary org_id="+orgID)
		return
	}

	summary, err := finance.EventSummaryFor(r.Context(), h.storage.Tenant(orgID), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err, "event summary org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// RegisterForEvent signs the caller up as an event volunteer.
func (h *Handler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	m, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "register for event org_id="+orgID)
		return
	}

	reg, err := h.storage.Tenant(orgID).RegisterForEvent(r.Context(), chi.URLParam(r, "id"), m.UserID)
	if err != nil {
		respondDomainError(w, err, "register for event org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusCreated, reg)
}

func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "list registrations org_id="+orgID)
		return
	}

	regs, err := h.storage.Tenant(orgID).ListRegistrations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err, "list registrations org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, regs)
}
