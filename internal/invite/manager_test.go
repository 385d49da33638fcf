package invite

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"seva-backend/internal/models"
	"seva-backend/internal/storage"
)

// fakeStore keeps invitations in memory and mirrors the storage layer's
// redemption semantics: the consumed mark and the membership write happen
// under one lock, so exactly one concurrent redeemer wins.
type fakeStore struct {
	mu          sync.Mutex
	org         *models.Organization
	invitations map[string]*models.Invitation // by token
	memberships []models.Membership
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		org: &models.Organization{
			ID:   "org-1",
			Name: "Kalibari Committee",
			Slug: "kalibari",
		},
		invitations: map[string]*models.Invitation{},
	}
}

func (f *fakeStore) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	if id != f.org.ID {
		return nil, storage.ErrNotFound
	}
	return f.org, nil
}

func (f *fakeStore) CreateInvitation(ctx context.Context, orgID, invitedByID string, input models.CreateInvitationInput, expiresAt time.Time) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, err := storage.GenerateInviteToken()
	if err != nil {
		return nil, err
	}
	inv := &models.Invitation{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Email:          input.Email,
		Role:           input.Role,
		Token:          token,
		EventID:        input.EventID,
		InvitedByID:    invitedByID,
		ExpiresAt:      expiresAt,
	}
	f.invitations[token] = inv
	return inv, nil
}

func (f *fakeStore) RedeemInvitation(ctx context.Context, token, userID string, now time.Time) (*models.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	inv, ok := f.invitations[token]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	if inv.ConsumedAt != nil {
		return nil, storage.ErrTokenAlreadyUsed
	}
	if !now.Before(inv.ExpiresAt) {
		return nil, storage.ErrTokenExpired
	}

	consumed := now
	inv.ConsumedAt = &consumed
	m := models.Membership{
		ID:             uuid.NewString(),
		OrganizationID: inv.OrganizationID,
		UserID:         userID,
		Role:           inv.Role,
	}
	f.memberships = append(f.memberships, m)
	return &m, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (n *recordingNotifier) SendInvitation(ctx context.Context, notif Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notif)
	return nil
}

func newTestManager(store Store, notifier Notifier, now time.Time) *Manager {
	m := NewManager(store, notifier, "https://seva.example.org")
	m.clock = func() time.Time { return now }
	return m
}

func TestIssueAndRedeem(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	mgr := newTestManager(store, notifier, now)

	resp, err := mgr.Issue(context.Background(), "org-1", "admin-1", models.CreateInvitationInput{
		Email: "priya@example.org",
		Role:  models.RoleTreasurer,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected token in issue response")
	}
	if !strings.HasPrefix(resp.Token, storage.TokenPrefix) {
		t.Fatalf("expected token prefix %q, got %q", storage.TokenPrefix, resp.Token)
	}
	if !resp.ExpiresAt.Equal(now.Add(DefaultTTL)) {
		t.Fatalf("expected expiry %v, got %v", now.Add(DefaultTTL), resp.ExpiresAt)
	}
	if !strings.Contains(resp.AcceptURL, "token=") {
		t.Fatalf("expected accept url with token, got %q", resp.AcceptURL)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
	}
	if notifier.sent[0].OrganizationName != "Kalibari Committee" {
		t.Fatalf("unexpected org name %q", notifier.sent[0].OrganizationName)
	}

	m, err := mgr.Redeem(context.Background(), resp.Token, "user-7")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if m.Role != models.RoleTreasurer {
		t.Fatalf("expected TREASURER membership, got %s", m.Role)
	}
	if m.UserID != "user-7" || m.OrganizationID != "org-1" {
		t.Fatalf("membership bound to wrong identity: %+v", m)
	}
}

func TestIssueNotificationFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	mgr := newTestManager(store, notifier, time.Now())

	resp, err := mgr.Issue(context.Background(), "org-1", "admin-1", models.CreateInvitationInput{
		Email: "dev@example.org",
		Role:  models.RoleVolunteer,
	})
	if err != nil {
		t.Fatalf("issue must survive delivery failure: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected shareable token despite delivery failure")
	}
}

func TestIssueUnknownOrganization(t *testing.T) {
	mgr := newTestManager(newFakeStore(), nil, time.Now())

	_, err := mgr.Issue(context.Background(), "org-ghost", "admin-1", models.CreateInvitationInput{
		Email: "x@example.org",
		Role:  models.RoleVolunteer,
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedeemUnknownToken(t *testing.T) {
	mgr := newTestManager(newFakeStore(), nil, time.Now())

	_, err := mgr.Redeem(context.Background(), "seva_inv_deadbeef", "user-1")
	if !errors.Is(err, storage.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestRedeemExpiredToken(t *testing.T) {
	store := newFakeStore()
	issued := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	mgr := newTestManager(store, nil, issued)

	resp, err := mgr.Issue(context.Background(), "org-1", "admin-1", models.CreateInvitationInput{
		Email: "late@example.org",
		Role:  models.RoleVolunteer,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Exactly at the boundary the token is already expired.
	mgr.clock = func() time.Time { return issued.Add(DefaultTTL) }
	_, err = mgr.Redeem(context.Background(), resp.Token, "user-1")
	if !errors.Is(err, storage.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRedeemTwice(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store, nil, time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC))

	resp, err := mgr.Issue(context.Background(), "org-1", "admin-1", models.CreateInvitationInput{
		Email: "once@example.org",
		Role:  models.RoleCommitteeMember,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := mgr.Redeem(context.Background(), resp.Token, "user-1"); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	_, err = mgr.Redeem(context.Background(), resp.Token, "user-2")
	if !errors.Is(err, storage.ErrTokenAlreadyUsed) {
		t.Fatalf("expected ErrTokenAlreadyUsed, got %v", err)
	}
}

func TestRedeemConcurrent(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store, nil, time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC))

	resp, err := mgr.Issue(context.Background(), "org-1", "admin-1", models.CreateInvitationInput{
		Email: "contended@example.org",
		Role:  models.RoleVolunteer,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	const redeemers = 16
	var wg sync.WaitGroup
	errs := make([]error, redeemers)
	for i := 0; i < redeemers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = mgr.Redeem(context.Background(), resp.Token, uuid.NewString())
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, storage.ErrTokenAlreadyUsed):
		default:
			t.Fatalf("unexpected redeem error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning redeemer, got %d", wins)
	}
	if len(store.memberships) != 1 {
		t.Fatalf("expected exactly one membership, got %d", len(store.memberships))
	}
}

func TestAcceptURLEscapesToken(t *testing.T) {
	mgr := NewManager(nil, nil, "https://seva.example.org")

	got := mgr.AcceptURL("seva_inv_ab+cd")
	want := "https://seva.example.org/accept-invite?token=seva_inv_ab%2Bcd"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
