package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"seva-backend/internal/models"
)

// ListMembers returns active members to any active member.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "list members org_id="+orgID)
		return
	}

	members, err := h.storage.ListMembers(r.Context(), orgID)
	if err != nil {
		respondDomainError(w, err, "list members org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

type changeRoleRequest struct {
	Role models.Role `json:"role"`
}

// ChangeMemberRole updates a member's role. ADMIN only; demoting the last
// active admin is refused.
func (h *Handler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin)
	if err != nil {
		respondDomainError(w, err, "change member role org_id="+orgID)
		return
	}

	var req changeRoleRequest
	if err := decodeBody(r, &req); err != nil || !req.Role.Valid() {
		respondError(w, http.StatusBadRequest, "valid role required")
		return
	}

	targetID := chi.URLParam(r, "userID")
	m, err := h.storage.ChangeMemberRole(r.Context(), orgID, targetID, req.Role)
	if err != nil {
		respondDomainError(w, err, "change member role org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, m)
}

// RemoveMember archives a membership; the row stays for history. ADMIN
// only; the last active admin cannot be removed.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin)
	if err != nil {
		respondDomainError(w, err, "remove member org_id="+orgID)
		return
	}

	targetID := chi.URLParam(r, "userID")
	if err := h.storage.ArchiveMember(r.Context(), orgID, targetID); err != nil {
		respondDomainError(w, err, "remove member org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
