package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"seva-backend/internal/finance"
	"seva-backend/internal/models"
)

// Public transparency routes. No authentication; the organization is
// resolved from its slug and everything else goes through the tenant
// gateway. Responses never carry internal ids, emails, roles, or member
// identities.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/v1/public/{slug}/overview", h.PublicOverview)
	r.Get("/v1/public/{slug}/donations", h.PublicDonations)
	r.Get("/v1/public/{slug}/bhog", h.PublicBhogItems)
}

// PublicOverview serves the organization-wide financial projection.
// @Summary Public financial overview
// @Tags public
// @Produce json
// @Router /v1/public/{slug}/overview [get]
func (h *Handler) PublicOverview(w http.ResponseWriter, r *http.Request) {
	org, err := h.storage.GetOrganizationBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondDomainError(w, err, "public overview")
		return
	}

	overview, err := finance.OverviewFor(r.Context(), h.storage.Tenant(org.ID), org)
	if err != nil {
		respondDomainError(w, err, "public overview org_id="+org.ID)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

type publicDonation struct {
	DonorName string                  `json:"donor_name"`
	Amount    decimal.Decimal         `json:"amount"`
	Category  models.DonationCategory `json:"category"`
	Date      time.Time               `json:"date"`
}

// PublicDonations lists non-archived donations with anonymous donors
// masked.
func (h *Handler) PublicDonations(w http.ResponseWriter, r *http.Request) {
	org, err := h.storage.GetOrganizationBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondDomainError(w, err, "public donations")
		return
	}

	donations, err := h.storage.Tenant(org.ID).ListDonations(r.Context())
	if err != nil {
		respondDomainError(w, err, "public donations org_id="+org.ID)
		return
	}

	out := make([]publicDonation, 0, len(donations))
	for _, d := range donations {
		name := d.DonorName
		if d.IsAnonymous {
			name = "Anonymous"
		}
		out = append(out, publicDonation{
			DonorName: name,
			Amount:    d.Amount,
			Category:  d.Category,
			Date:      d.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

type publicBhogItem struct {
	Name        string            `json:"name"`
	Quantity    string            `json:"quantity"`
	SponsorName *string           `json:"sponsor_name,omitempty"`
	Status      models.BhogStatus `json:"status"`
	Date        time.Time         `json:"date"`
}

// PublicBhogItems lists non-archived bhog items with their sponsorship
// state.
func (h *Handler) PublicBhogItems(w http.ResponseWriter, r *http.Request) {
	org, err := h.storage.GetOrganizationBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondDomainError(w, err, "public bhog")
		return
	}

	items, err := h.storage.Tenant(org.ID).ListBhogItems(r.Context())
	if err != nil {
		respondDomainError(w, err, "public bhog org_id="+org.ID)
		return
	}

	out := make([]publicBhogItem, 0, len(items))
	for _, b := range items {
		out = append(out, publicBhogItem{
			Name:        b.Name,
			Quantity:    b.Quantity,
			SponsorName: b.SponsorName,
			Status:      b.Status,
			Date:        b.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, out)
}
