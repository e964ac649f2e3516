package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rufinoratti/zonadepor-api/models"
)

func newInvitationFixture(t *testing.T, match *models.Match, invitations ...*models.Invitation) (InvitationService, *fakeInvitationRepo, *fakeMatchRepo, *fakeParticipantRepo) {
	t.Helper()
	invitationRepo := newFakeInvitationRepo()
	for _, inv := range invitations {
		invitationRepo.invitations[inv.ID] = inv
	}
	matchRepo := newFakeMatchRepo(match)
	participantRepo := &fakeParticipantRepo{}
	membership := NewMembershipService(newStubDB(t), matchRepo, participantRepo, &fakeNotifier{})
	svc := NewInvitationService(invitationRepo, participantRepo, membership)
	return svc, invitationRepo, matchRepo, participantRepo
}

func pendingInvitation(id, userID string) *models.Invitation {
	return &models.Invitation{
		ID:      id,
		MatchID: "match-1",
		UserID:  userID,
		Status:  models.InvitationPending,
	}
}

func TestAcceptInvitationJoinsMatch(t *testing.T) {
	svc, invitationRepo, matchRepo, _ := newInvitationFixture(t,
		futsalMatch(models.StatusNeedsPlayers, 4, 0),
		pendingInvitation("inv-1", "user-1"),
	)

	participant, err := svc.Accept(context.Background(), "inv-1", "user-1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if participant.UserID != "user-1" || participant.MatchID != "match-1" {
		t.Errorf("participant = %+v, want user-1 in match-1", participant)
	}
	if got := invitationRepo.invitations["inv-1"].Status; got != models.InvitationAccepted {
		t.Errorf("invitation status = %s, want %s", got, models.InvitationAccepted)
	}
	if got := matchRepo.matches["match-1"].ConfirmedPlayers; got != 1 {
		t.Errorf("confirmed players = %d, want 1", got)
	}
}

func TestAcceptInvitationRetryAfterJoin(t *testing.T) {
	// Предыдущее принятие провело пользователя в партид, но статус
	// приглашения записать не успело: повтор должен досчитаться принятием,
	// а не упираться в "уже участвует".
	svc, invitationRepo, _, participantRepo := newInvitationFixture(t,
		futsalMatch(models.StatusNeedsPlayers, 4, 1),
		pendingInvitation("inv-1", "user-1"),
	)
	participantRepo.participants = []models.Participant{
		{ID: "p-1", MatchID: "match-1", UserID: "user-1", Team: models.SideA},
	}

	participant, err := svc.Accept(context.Background(), "inv-1", "user-1")
	if err != nil {
		t.Fatalf("accept retry: %v", err)
	}
	if participant.ID != "p-1" {
		t.Errorf("participant = %+v, want the existing p-1", participant)
	}
	if got := invitationRepo.invitations["inv-1"].Status; got != models.InvitationAccepted {
		t.Errorf("invitation status = %s, want %s", got, models.InvitationAccepted)
	}
}

func TestAcceptInvitationOnFullMatch(t *testing.T) {
	svc, invitationRepo, _, _ := newInvitationFixture(t,
		futsalMatch(models.StatusFormed, 2, 2),
		pendingInvitation("inv-1", "user-1"),
	)

	if _, err := svc.Accept(context.Background(), "inv-1", "user-1"); !errors.Is(err, ErrMatchFull) {
		t.Fatalf("err = %v, want ErrMatchFull", err)
	}
	// Неудавшееся принятие оставляет приглашение без ответа.
	if got := invitationRepo.invitations["inv-1"].Status; got != models.InvitationPending {
		t.Errorf("invitation status = %s, want %s", got, models.InvitationPending)
	}
}

func TestRejectInvitation(t *testing.T) {
	svc, invitationRepo, _, _ := newInvitationFixture(t,
		futsalMatch(models.StatusNeedsPlayers, 4, 0),
		pendingInvitation("inv-1", "user-1"),
	)

	if err := svc.Reject(context.Background(), "inv-1", "user-1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got := invitationRepo.invitations["inv-1"].Status; got != models.InvitationRejected {
		t.Errorf("invitation status = %s, want %s", got, models.InvitationRejected)
	}
}

func TestInvitationGuards(t *testing.T) {
	t.Run("only the invitee answers", func(t *testing.T) {
		svc, _, _, _ := newInvitationFixture(t,
			futsalMatch(models.StatusNeedsPlayers, 4, 0),
			pendingInvitation("inv-1", "user-1"),
		)
		if _, err := svc.Accept(context.Background(), "inv-1", "user-2"); !errors.Is(err, ErrForbiddenOperation) {
			t.Errorf("err = %v, want ErrForbiddenOperation", err)
		}
	})

	t.Run("answered invitation stays answered", func(t *testing.T) {
		answered := pendingInvitation("inv-1", "user-1")
		answered.Status = models.InvitationRejected
		svc, _, _, _ := newInvitationFixture(t, futsalMatch(models.StatusNeedsPlayers, 4, 0), answered)

		if _, err := svc.Accept(context.Background(), "inv-1", "user-1"); !errors.Is(err, ErrInvitationNotPending) {
			t.Errorf("err = %v, want ErrInvitationNotPending", err)
		}
	})

	t.Run("missing invitation", func(t *testing.T) {
		svc, _, _, _ := newInvitationFixture(t, futsalMatch(models.StatusNeedsPlayers, 4, 0))
		if err := svc.Reject(context.Background(), "missing", "user-1"); !errors.Is(err, ErrInvitationNotFound) {
			t.Errorf("err = %v, want ErrInvitationNotFound", err)
		}
	})
}

func TestListForUserReturnsOnlyPending(t *testing.T) {
	answered := pendingInvitation("inv-2", "user-1")
	answered.Status = models.InvitationAccepted

	svc, _, _, _ := newInvitationFixture(t,
		futsalMatch(models.StatusNeedsPlayers, 4, 0),
		pendingInvitation("inv-1", "user-1"),
		answered,
		pendingInvitation("inv-3", "user-2"),
	)

	invitations, err := svc.ListForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(invitations) != 1 || invitations[0].ID != "inv-1" {
		t.Errorf("invitations = %+v, want only inv-1", invitations)
	}
}
