package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/notifications"
	"github.com/rufinoratti/zonadepor-api/repositories"
)

// MatchmakingService выполняет стратегию подбора игроков для партида:
// отбирает кандидатов и рассылает им приглашения. Подбор только предлагает —
// присоединение остаётся за самим игроком.
type MatchmakingService interface {
	Execute(ctx context.Context, matchID, callerID string, strategy models.MatchmakingStrategy) (int, error)
}

type matchmakingService struct {
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	userRepo        repositories.UserRepository
	invitationRepo  repositories.InvitationRepository
	notifier        Notifier
	logger          *slog.Logger
}

func NewMatchmakingService(
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	userRepo repositories.UserRepository,
	invitationRepo repositories.InvitationRepository,
	notifier Notifier,
	logger *slog.Logger,
) MatchmakingService {
	return &matchmakingService{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		invitationRepo:  invitationRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// Execute возвращает число приглашённых кандидатов.
func (s *matchmakingService) Execute(ctx context.Context, matchID, callerID string, strategy models.MatchmakingStrategy) (int, error) {
	if _, ok := models.ParseMatchmakingStrategy(string(strategy)); !ok {
		return 0, ErrInvalidStrategy
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return 0, ErrMatchNotFound
		}
		return 0, err
	}
	if match.OrganizerID != callerID {
		return 0, ErrNotOrganizer
	}
	if match.Status != models.StatusNeedsPlayers {
		return 0, ErrMatchNotJoinable
	}

	candidateIDs, err := s.selectCandidates(ctx, match, strategy)
	if err != nil {
		return 0, err
	}

	// Исключаем организатора и уже присоединившихся.
	participants, err := s.participantRepo.ListByMatch(ctx, matchID, false)
	if err != nil {
		return 0, fmt.Errorf("failed to load participants for match %s: %w", matchID, err)
	}
	match.Participants = participants

	// Приглашения персистентны: повторный запуск не дублирует уже
	// отправленные, уведомляются только новые получатели.
	seen := make(map[string]bool, len(candidateIDs))
	pending := make([]models.Invitation, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if id == match.OrganizerID || match.HasParticipant(id) || seen[id] {
			continue
		}
		seen[id] = true
		pending = append(pending, models.Invitation{
			ID:      uuid.NewString(),
			MatchID: matchID,
			UserID:  id,
			Status:  models.InvitationPending,
		})
	}

	invitedIDs, err := s.invitationRepo.CreateBatch(ctx, pending)
	if err != nil {
		return 0, fmt.Errorf("failed to persist invitations: %w", err)
	}

	event := notifications.Event{
		Type:    notifications.EventMatchInvitation,
		MatchID: matchID,
		Payload: map[string]interface{}{
			"deporteId":      match.SportID,
			"zonaId":         match.ZoneID,
			"fecha":          match.Date,
			"hora":           match.Time,
			"tipoEstrategia": strategy,
			"nivelMinimo":    match.MinLevel,
			"nivelMaximo":    match.MaxLevel,
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, id := range invitedIDs {
		candidateID := id
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			s.notifier.NotifyUser(candidateID, event)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return len(invitedIDs), fmt.Errorf("matchmaking fan-out interrupted: %w", err)
	}

	s.logger.Info("matchmaking executed",
		slog.String("match_id", matchID),
		slog.String("strategy", string(strategy)),
		slog.Int("candidates_invited", len(invitedIDs)))

	return len(invitedIDs), nil
}

func (s *matchmakingService) selectCandidates(ctx context.Context, match *models.Match, strategy models.MatchmakingStrategy) ([]string, error) {
	switch strategy {
	case models.StrategyZone:
		users, err := s.userRepo.List(ctx, repositories.ListUsersFilter{ZoneID: &match.ZoneID})
		if err != nil {
			return nil, fmt.Errorf("failed to select candidates by zone: %w", err)
		}
		return userIDs(users), nil

	case models.StrategyLevel:
		minLevel, maxLevel := match.MinLevel, match.MaxLevel
		users, err := s.userRepo.List(ctx, repositories.ListUsersFilter{
			MinLevel: &minLevel,
			MaxLevel: &maxLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to select candidates by level: %w", err)
		}
		return userIDs(users), nil

	case models.StrategyHistory:
		ids, err := s.participantRepo.SharedFinishedMatchUserIDs(ctx, match.OrganizerID)
		if err != nil {
			return nil, fmt.Errorf("failed to select candidates by history: %w", err)
		}
		return ids, nil

	case models.StrategyOpen:
		users, err := s.userRepo.List(ctx, repositories.ListUsersFilter{SportID: &match.SportID})
		if err != nil {
			return nil, fmt.Errorf("failed to select open candidates: %w", err)
		}
		return userIDs(users), nil

	default:
		return nil, ErrInvalidStrategy
	}
}

func userIDs(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
