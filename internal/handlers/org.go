package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"seva-backend/internal/auth"
	"seva-backend/internal/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateOrganization registers a committee; the creator becomes its ADMIN.
// @Summary Create organization
// @Tags orgs
// @Security BearerAuth
// @Router /v1/orgs [post]
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input models.CreateOrganizationInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Name == "" || !slugPattern.MatchString(input.Slug) {
		respondError(w, http.StatusBadRequest, "name and a url-safe slug are required")
		return
	}
	if input.BudgetTarget.Valid && input.BudgetTarget.Decimal.IsNegative() {
		respondError(w, http.StatusBadRequest, "budget target cannot be negative")
		return
	}

	org, err := h.storage.CreateOrganization(r.Context(), userID, input)
	if err != nil {
		respondDomainError(w, err, "create organization")
		return
	}

	respondJSON(w, http.StatusCreated, org)
}

// ListMyOrganizations lists organizations the caller belongs to.
func (h *Handler) ListMyOrganizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orgs, err := h.storage.ListOrganizationsForUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err, "list organizations")
		return
	}

	respondJSON(w, http.StatusOK, orgs)
}

// GetOrganization returns one organization to its active members.
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := h.requireMember(r)
	if err != nil {
		respondDomainError(w, err, "get organization org_id="+orgID)
		return
	}

	org, err := h.storage.GetOrganization(r.Context(), orgID)
	if err != nil {
		respondDomainError(w, err, "get organization org_id="+orgID)
		return
	}

	respondJSON(w, http.StatusOK, org)
}
