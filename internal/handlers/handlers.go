package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"seva-backend/internal/access"
	"seva-backend/internal/auth"
	"seva-backend/internal/invite"
	"seva-backend/internal/models"
	"seva-backend/internal/storage"
)

type Handler struct {
	storage *storage.Storage
	gate    *access.Gate
	invites *invite.Manager
}

func New(store *storage.Storage, gate *access.Gate, invites *invite.Manager) *Handler {
	return &Handler{
		storage: store,
		gate:    gate,
		invites: invites,
	}
}

// RegisterRoutes wires the authenticated API. The auth middleware runs
// outside this router; every handler still re-checks the caller against
// the access gate before touching tenant data.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/v1/orgs", h.CreateOrganization)
	r.Get("/v1/orgs", h.ListMyOrganizations)

	r.Route("/v1/orgs/{orgID}", func(r chi.Router) {
		r.Get("/", h.GetOrganization)

		r.Get("/members", h.ListMembers)
		r.Patch("/members/{userID}", h.ChangeMemberRole)
		r.Delete("/members/{userID}", h.RemoveMember)

		r.Post("/invitations", h.CreateInvitation)
		r.Get("/invitations", h.ListInvitations)

		r.Post("/donations", h.CreateDonation)
		r.Get("/donations", h.ListDonations)
		r.Get("/donations/{id}", h.GetDonation)
		r.Patch("/donations/{id}", h.UpdateDonation)
		r.Delete("/donations/{id}", h.ArchiveDonation)

		r.Post("/expenses", h.CreateExpense)
		r.Get("/expenses", h.ListExpenses)
		r.Get("/expenses/{id}", h.GetExpense)
		r.Patch("/expenses/{id}", h.UpdateExpense)
		r.Delete("/expenses/{id}", h.ArchiveExpense)
		r.Post("/expenses/{id}/approve", h.ApproveExpense)
		r.Post("/expenses/{id}/reject", h.RejectExpense)

		r.Post("/bhog", h.CreateBhogItem)
		r.Get("/bhog", h.ListBhogItems)
		r.Post("/bhog/{id}/sponsor", h.SponsorBhogItem)
		r.Post("/bhog/{id}/prepared", h.MarkBhogItemPrepared)
		r.Delete("/bhog/{id}", h.ArchiveBhogItem)

		r.Post("/events", h.CreateEvent)
		r.Get("/events", h.ListEvents)
		r.Get("/events/{id}", h.GetEvent)
		r.Patch("/events/{id}", h.UpdateEvent)
		r.Delete("/events/{id}", h.ArchiveEvent)
		r.Get("/events/{id}/summary", h.EventSummary)
		r.Post("/events/{id}/register", h.RegisterForEvent)
		r.Get("/events/{id}/registrations", h.ListRegistrations)

		r.Post("/tasks", h.CreateTask)
		r.Get("/tasks", h.ListTasks)
		r.Get("/tasks/{id}", h.GetTask)
		r.Post("/tasks/{id}/assign", h.AssignTask)
		r.Post("/tasks/{id}/status", h.SetTaskStatus)
		r.Delete("/tasks/{id}", h.ArchiveTask)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("ERROR encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps the taxonomy to HTTP statuses. Anything outside
// the taxonomy is a storage error: logged with operation context, surfaced
// generic.
func respondDomainError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, access.ErrNotAMember):
		respondError(w, http.StatusForbidden, "not a member of this organization")
	case errors.Is(err, access.ErrForbidden):
		respondError(w, http.StatusForbidden, "insufficient role")
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrTokenNotFound):
		respondError(w, http.StatusNotFound, "invalid invitation")
	case errors.Is(err, storage.ErrTokenExpired):
		respondError(w, http.StatusGone, "invitation expired")
	case errors.Is(err, storage.ErrTokenAlreadyUsed):
		respondError(w, http.StatusConflict, "invitation already used")
	case errors.Is(err, storage.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, storage.ErrLastAdmin):
		respondError(w, http.StatusConflict, "organization must keep at least one active admin")
	case errors.Is(err, storage.ErrSlugTaken):
		respondError(w, http.StatusConflict, "slug already taken")
	default:
		log.Printf("ERROR %s: %v", op, err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// requireRole resolves the caller and the org from the request and runs
// them through the access gate.
func (h *Handler) requireRole(r *http.Request, allowed ...models.Role) (*models.Membership, string, error) {
	orgID := chi.URLParam(r, "orgID")
	userID, _ := auth.UserIDFromContext(r.Context())
	m, err := h.gate.RequireRole(r.Context(), userID, orgID, allowed...)
	if err != nil {
		return nil, orgID, err
	}
	return m, orgID, nil
}

// requireMember is requireRole without a role restriction: any active
// member passes.
func (h *Handler) requireMember(r *http.Request) (*models.Membership, string, error) {
	orgID := chi.URLParam(r, "orgID")
	userID, _ := auth.UserIDFromContext(r.Context())
	m, err := h.gate.CheckMembership(r.Context(), userID, orgID)
	if err != nil {
		return nil, orgID, err
	}
	return m, orgID, nil
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
