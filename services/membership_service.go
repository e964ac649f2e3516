package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/notifications"
	"github.com/rufinoratti/zonadepor-api/repositories"
)

// MembershipService ведёт учёт участников партида: вход, выход, назначение
// стороны и автоматические переходы NECESITAMOS_JUGADORES <-> ARMADO при
// изменении числа игроков. Вместимость проверяется под блокировкой строки
// партида, поэтому два одновременных входа на последнее место невозможны.
type MembershipService interface {
	Join(ctx context.Context, matchID, callerID string, input JoinMatchInput) (*models.Participant, error)
	Leave(ctx context.Context, matchID, callerID string, input LeaveMatchInput) error
}

type JoinMatchInput struct {
	UserID string `json:"usuarioId"`
	Team   string `json:"equipo"`
}

type LeaveMatchInput struct {
	UserID string `json:"usuarioId"`
}

type membershipService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	notifier        Notifier
}

func NewMembershipService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	notifier Notifier,
) MembershipService {
	return &membershipService{
		db:              db,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		notifier:        notifier,
	}
}

func (s *membershipService) Join(ctx context.Context, matchID, callerID string, input JoinMatchInput) (*models.Participant, error) {
	// Присоединить можно только самого себя.
	if input.UserID != "" && input.UserID != callerID {
		return nil, ErrForbiddenOperation
	}
	userID := callerID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if match.OrganizerID == userID {
		return nil, ErrOrganizerCannotJoin
	}
	if match.Status != models.StatusNeedsPlayers {
		if match.IsFull() {
			return nil, ErrMatchFull
		}
		return nil, ErrMatchNotJoinable
	}
	if match.IsFull() {
		return nil, ErrMatchFull
	}

	if _, err := s.participantRepo.FindByUserAndMatch(ctx, tx, userID, matchID); err == nil {
		return nil, ErrAlreadyJoined
	} else if !errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil, err
	}

	count, err := s.participantRepo.CountByMatch(ctx, tx, matchID)
	if err != nil {
		return nil, err
	}

	team, err := resolveTeamSide(input.Team, count)
	if err != nil {
		return nil, err
	}

	participant := &models.Participant{
		ID:      uuid.NewString(),
		MatchID: matchID,
		UserID:  userID,
		Team:    team,
	}
	if err := s.participantRepo.Create(ctx, tx, participant); err != nil {
		if errors.Is(err, repositories.ErrParticipantConflict) {
			return nil, ErrAlreadyJoined
		}
		return nil, err
	}

	// Набор полного состава автоматически переводит партид в ARMADO.
	newCount := count + 1
	newStatus := models.StatusNeedsPlayers
	if newCount >= match.RequiredPlayers {
		newStatus = models.StatusFormed
	}
	if err := s.matchRepo.UpdateStatusAndCount(ctx, tx, matchID, newStatus, newCount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit join: %w", err)
	}

	s.notifier.NotifyUser(match.OrganizerID, notifications.Event{
		Type:    notifications.EventPlayerJoined,
		MatchID: matchID,
		Payload: map[string]interface{}{"usuarioId": userID, "equipo": team},
	})
	if newStatus == models.StatusFormed {
		s.notifier.NotifyUser(match.OrganizerID, notifications.Event{
			Type:    notifications.EventMatchStatusChanged,
			MatchID: matchID,
			Payload: map[string]interface{}{"estado": newStatus},
		})
	}

	return participant, nil
}

func (s *membershipService) Leave(ctx context.Context, matchID, callerID string, input LeaveMatchInput) error {
	if input.UserID != "" && input.UserID != callerID {
		return ErrForbiddenOperation
	}
	userID := callerID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}

	if match.Status.IsTerminal() {
		return ErrMatchTerminal
	}

	participant, err := s.participantRepo.FindByUserAndMatch(ctx, tx, userID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrNotJoined
		}
		return err
	}

	if err := s.participantRepo.Delete(ctx, tx, participant.ID); err != nil {
		return err
	}

	count, err := s.participantRepo.CountByMatch(ctx, tx, matchID)
	if err != nil {
		return err
	}

	// Потеря игрока из собранного состава возвращает партид в набор.
	newStatus := match.Status
	if match.Status == models.StatusFormed && count < match.RequiredPlayers {
		newStatus = models.StatusNeedsPlayers
	}
	if err := s.matchRepo.UpdateStatusAndCount(ctx, tx, matchID, newStatus, count); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit leave: %w", err)
	}

	s.notifier.NotifyUser(match.OrganizerID, notifications.Event{
		Type:    notifications.EventPlayerLeft,
		MatchID: matchID,
		Payload: map[string]interface{}{"usuarioId": userID},
	})
	if newStatus != match.Status {
		s.notifier.NotifyUser(match.OrganizerID, notifications.Event{
			Type:    notifications.EventMatchStatusChanged,
			MatchID: matchID,
			Payload: map[string]interface{}{"estado": newStatus},
		})
	}

	return nil
}

// resolveTeamSide принимает сторону из запроса либо назначает её чередованием
// по чётности текущего числа участников: чётное -> A, нечётное -> B.
func resolveTeamSide(requested string, currentCount int) (models.TeamSide, error) {
	if requested != "" {
		side, ok := models.ParseTeamSide(requested)
		if !ok {
			return "", ErrInvalidTeamSide
		}
		return side, nil
	}
	if currentCount%2 == 0 {
		return models.SideA, nil
	}
	return models.SideB, nil
}
