package handlers

import (
	"net/http"
	"strings"
	"time"

	"seva-backend/internal/auth"
	"seva-backend/internal/models"
)

// CreateInvitation issues a single-use invitation token. ADMIN only.
// @Summary Invite a member
// @Tags invitations
// @Security BearerAuth
// @Router /v1/orgs/{orgID}/invitations [post]
func (h *Handler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	m, orgID, err := h.requireRole(r, models.RoleAdmin)
	if err != nil {
		respondDomainError(w, err, "create invitation org_id="+orgID)
		return
	}

	var input models.CreateInvitationInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		respondError(w, http.StatusBadRequest, "valid email required")
		return
	}
	if !input.Role.Valid() {
		respondError(w, http.StatusBadRequest, "valid role required")
		return
	}

	resp, err := h.invites.Issue(r.Context(), orgID, m.UserID, input)
	if err != nil {
		respondDomainError(w, err, "create invitation org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// ListInvitations lists invitations with their derived status. ADMIN only;
// tokens are not echoed back.
func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin)
	if err != nil {
		respondDomainError(w, err, "list invitations org_id="+orgID)
		return
	}

	invs, err := h.storage.Tenant(orgID).ListInvitations(r.Context())
	if err != nil {
		respondDomainError(w, err, "list invitations org_id="+orgID)
		return
	}

	now := time.Now().UTC()
	out := make([]map[string]any, 0, len(invs))
	for i := range invs {
		inv := &invs[i]
		out = append(out, map[string]any{
			"id":         inv.ID,
			"email":      inv.Email,
			"role":       inv.Role,
			"event_id":   inv.EventID,
			"status":     inv.Status(now),
			"expires_at": inv.ExpiresAt,
			"created_at": inv.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

type acceptInvitationRequest struct {
	Token string `json:"token"`
}

// AcceptInvitation redeems a token for the authenticated caller. The token
// may arrive as a query parameter (from the shared link) or in the body.
// @Summary Accept an invitation
// @Tags invitations
// @Security BearerAuth
// @Router /v1/invitations/accept [post]
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		var req acceptInvitationRequest
		if err := decodeBody(r, &req); err == nil {
			token = strings.TrimSpace(req.Token)
		}
	}
	if token == "" {
		respondError(w, http.StatusBadRequest, "missing token")
		return
	}

	m, err := h.invites.Redeem(r.Context(), token, userID)
	if err != nil {
		respondDomainError(w, err, "accept invitation")
		return
	}

	respondJSON(w, http.StatusOK, m)
}
