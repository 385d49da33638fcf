package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"seva-backend/internal/models"
)

func (h *Handler) CreateBhogItem(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "create bhog item org_id="+orgID)
		return
	}

	var input models.CreateBhogItemInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Quantity = strings.TrimSpace(input.Quantity)
	if input.Name == "" || input.Quantity == "" {
		respondError(w, http.StatusBadRequest, "name and quantity required")
		return
	}

	b, err := h.storage.Tenant(orgID).CreateBhogItem(r.Context(), input)
	if err != nil {
		respondDomainError(w, err, "create bhog item org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusCreated, b)
}

func (h *Handler) ListBhogItems(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "list bhog items org_id="+orgID)
		return
	}

	items, err := h.storage.Tenant(orgID).ListBhogItems(r.Context())
	if err != nil {
		respondDomainError(w, err, "list bhog items org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

type sponsorRequest struct {
	SponsorName string `json:"sponsor_name"`
}

// SponsorBhogItem records a sponsor on a still-open item. Any active
// member may record a sponsorship.
func (h *Handler) SponsorBhogItem(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "sponsor bhog item org_id="+orgID)
		return
	}

	var req sponsorRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.SponsorName = strings.TrimSpace(req.SponsorName)
	if req.SponsorName == "" {
		respondError(w, http.StatusBadRequest, "sponsor name required")
		return
	}

	b, err := h.storage.Tenant(orgID).SponsorBhogItem(r.Context(), chi.URLParam(r, "id"), req.SponsorName)
	if err != nil {
		respondDomainError(w, err, "sponsor bhog item org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, b)
}

func (h *Handler) MarkBhogItemPrepared(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "mark bhog item prepared org_id="+orgID)
		return
	}

	b, err := h.storage.Tenant(orgID).SetBhogItemStatus(r.Context(), chi.URLParam(r, "id"), models.BhogPrepared)
	if err != nil {
		respondDomainError(w, err, "mark bhog item prepared org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, b)
}

func (h *Handler) ArchiveBhogItem(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "archive bhog item org_id="+orgID)
		return
	}

	if err := h.storage.Tenant(orgID).ArchiveBhogItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err, "archive bhog item org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}
