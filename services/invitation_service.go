package services

import (
	"context"
	"errors"

	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/repositories"
)

// InvitationService отвечает на приглашения, созданные подбором игроков.
// Принятие приглашения проводит пользователя через обычный вход в партид,
// со всеми его проверками вместимости и статуса.
type InvitationService interface {
	ListForUser(ctx context.Context, userID string) ([]models.Invitation, error)
	Accept(ctx context.Context, invitationID, callerID string) (*models.Participant, error)
	Reject(ctx context.Context, invitationID, callerID string) error
}

type invitationService struct {
	invitationRepo  repositories.InvitationRepository
	participantRepo repositories.ParticipantRepository
	membership      MembershipService
}

func NewInvitationService(
	invitationRepo repositories.InvitationRepository,
	participantRepo repositories.ParticipantRepository,
	membership MembershipService,
) InvitationService {
	return &invitationService{
		invitationRepo:  invitationRepo,
		participantRepo: participantRepo,
		membership:      membership,
	}
}

func (s *invitationService) ListForUser(ctx context.Context, userID string) ([]models.Invitation, error) {
	return s.invitationRepo.ListPendingByUser(ctx, userID)
}

func (s *invitationService) Accept(ctx context.Context, invitationID, callerID string) (*models.Participant, error) {
	invitation, err := s.loadOwn(ctx, invitationID, callerID)
	if err != nil {
		return nil, err
	}

	participant, err := s.membership.Join(ctx, invitation.MatchID, callerID, JoinMatchInput{})
	if err != nil {
		if !errors.Is(err, ErrAlreadyJoined) {
			// Партид мог заполниться или отмениться, пока приглашение висело.
			return nil, err
		}
		// Пользователь уже в партиде: предыдущее принятие прошло вход, но не
		// успело записать статус приглашения. Повтор досчитывается принятием.
		participant, err = s.participantRepo.FindByUserAndMatch(ctx, nil, callerID, invitation.MatchID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.invitationRepo.UpdateStatus(ctx, nil, invitationID, models.InvitationAccepted); err != nil {
		return nil, err
	}
	return participant, nil
}

func (s *invitationService) Reject(ctx context.Context, invitationID, callerID string) error {
	if _, err := s.loadOwn(ctx, invitationID, callerID); err != nil {
		return err
	}
	return s.invitationRepo.UpdateStatus(ctx, nil, invitationID, models.InvitationRejected)
}

// loadOwn возвращает приглашение, если оно принадлежит вызывающему и ещё
// не отвечено.
func (s *invitationService) loadOwn(ctx context.Context, invitationID, callerID string) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrInvitationNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if invitation.UserID != callerID {
		return nil, ErrForbiddenOperation
	}
	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationNotPending
	}
	return invitation, nil
}
