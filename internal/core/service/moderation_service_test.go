package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

type stubAuditPublisher struct {
	events []domain.ModerationEvent
}

func (p *stubAuditPublisher) Enqueue(e domain.ModerationEvent) {
	p.events = append(p.events, e)
}

var admin = &domain.Identity{ID: "admin-1", Name: "Ada", Role: domain.RoleAdmin}

func newModerationSvc(repo *stubChallengeRepo, audit *stubAuditPublisher) *ModerationService {
	svc := NewModerationService(repo, audit, discardLogger)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestModerationService_Transition_Approve(t *testing.T) {
	repo := newStubChallengeRepo()
	audit := &stubAuditPublisher{}
	svc := newModerationSvc(repo, audit)
	seedChallenge(repo, "42", domain.StatusPending)

	updated, err := svc.Transition(context.Background(), "42", domain.StatusApproved, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusApproved {
		t.Errorf("expected APPROVED, got %s", updated.Status)
	}
	if repo.byID["42"].Status != domain.StatusApproved {
		t.Errorf("expected stored status APPROVED, got %s", repo.byID["42"].Status)
	}
	if len(audit.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(audit.events))
	}
	ev := audit.events[0]
	if ev.From != domain.StatusPending || ev.To != domain.StatusApproved || ev.ActorID != admin.ID {
		t.Errorf("unexpected audit event: %+v", ev)
	}
	if ev.ID == "" || !ev.At.Equal(fixedNow) {
		t.Errorf("expected id and timestamp on audit event: %+v", ev)
	}
}

func TestModerationService_Transition_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []domain.ChallengeStatus{domain.StatusApproved, domain.StatusRejected} {
		repo := newStubChallengeRepo()
		audit := &stubAuditPublisher{}
		svc := newModerationSvc(repo, audit)
		seedChallenge(repo, "42", from)

		for _, to := range []domain.ChallengeStatus{domain.StatusPending, domain.StatusApproved, domain.StatusRejected} {
			_, err := svc.Transition(context.Background(), "42", to, admin)
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", from, to, err)
			}
		}
		if len(audit.events) != 0 {
			t.Errorf("%s: expected no audit events, got %d", from, len(audit.events))
		}
	}
}

func TestModerationService_Transition_LostRace(t *testing.T) {
	repo := newStubChallengeRepo()
	repo.updateErr = domain.ErrInvalidTransition // another admin won the compare-and-set
	audit := &stubAuditPublisher{}
	svc := newModerationSvc(repo, audit)
	seedChallenge(repo, "42", domain.StatusPending)

	_, err := svc.Transition(context.Background(), "42", domain.StatusRejected, admin)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(audit.events) != 0 {
		t.Error("expected no audit event when the update fails")
	}
}

func TestModerationService_Transition_RequiresAdmin(t *testing.T) {
	repo := newStubChallengeRepo()
	svc := newModerationSvc(repo, &stubAuditPublisher{})
	seedChallenge(repo, "42", domain.StatusPending)

	if _, err := svc.Transition(context.Background(), "42", domain.StatusApproved, solver); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.byID["42"].Status != domain.StatusPending {
		t.Error("status must be unchanged")
	}
}

func TestModerationService_Transition_NotFound(t *testing.T) {
	svc := newModerationSvc(newStubChallengeRepo(), &stubAuditPublisher{})

	if _, err := svc.Transition(context.Background(), "404", domain.StatusApproved, admin); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestModerationService_Delete(t *testing.T) {
	repo := newStubChallengeRepo()
	audit := &stubAuditPublisher{}
	svc := newModerationSvc(repo, audit)
	seedChallenge(repo, "42", domain.StatusRejected)

	if err := svc.Delete(context.Background(), "42", admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.byID["42"]; ok {
		t.Error("expected challenge to be removed")
	}
	if len(audit.events) != 1 || audit.events[0].Action != domain.ActionDeleted {
		t.Fatalf("expected a deletion audit event, got %+v", audit.events)
	}
}

func TestModerationService_ListAll_NoStatusFilter(t *testing.T) {
	repo := newStubChallengeRepo()
	svc := newModerationSvc(repo, &stubAuditPublisher{})
	seedChallenge(repo, "1", domain.StatusPending)
	seedChallenge(repo, "2", domain.StatusApproved)
	seedChallenge(repo, "3", domain.StatusRejected)

	got, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected every challenge, got %d", len(got))
	}
	if repo.lastFilter.Status != "" || repo.lastFilter.Limit != moderationListLimit {
		t.Errorf("unexpected filter: %+v", repo.lastFilter)
	}
}
