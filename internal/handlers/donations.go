package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"seva-backend/internal/models"
)

// CreateDonation records a donation; payments themselves happen outside
// the system.
func (h *Handler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "create donation org_id="+orgID)
		return
	}

	var input models.CreateDonationInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	input.DonorName = strings.TrimSpace(input.DonorName)
	if input.DonorName == "" || !input.Category.Valid() {
		respondError(w, http.StatusBadRequest, "donor name and a valid category required")
		return
	}

	d, err := h.storage.Tenant(orgID).CreateDonation(r.Context(), input)
	if err != nil {
		respondDomainError(w, err, "create donation org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusCreated, d)
}

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "list donations org_id="+orgID)
		return
	}

	donations, err := h.storage.Tenant(orgID).ListDonations(r.Context())
	if err != nil {
		respondDomainError(w, err, "list donations org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, donations)
}

func (h *Handler) GetDonation(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "get donation org_id="+orgID)
		return
	}

	d, err := h.storage.Tenant(orgID).GetDonation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err, "get donation org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) UpdateDonation(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "update donation org_id="+orgID)
		return
	}

	var input models.CreateDonationInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(input.DonorName) == "" || !input.Category.Valid() {
		respondError(w, http.StatusBadRequest, "donor name and a valid category required")
		return
	}

	d, err := h.storage.Tenant(orgID).UpdateDonation(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondDomainError(w, err, "update donation org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) ArchiveDonation(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireRole(r, models.RoleAdmin, models.RoleTreasurer, models.RoleCommitteeMember)
	if err != nil {
		respondDomainError(w, err, "archive donation org_id="+orgID)
		return
	}

	if err := h.storage.Tenant(orgID).ArchiveDonation(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err, "archive donation org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}
