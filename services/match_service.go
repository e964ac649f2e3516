package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/notifications"
	"github.com/rufinoratti/zonadepor-api/repositories"
)

// MatchService управляет жизненным циклом партида: создание, переходы
// статусов, назначение победителя. Только организатор двигает партид по
// жизненному циклу; правомерность перехода проверяется здесь, а не в клиенте.
type MatchService interface {
	CreateMatch(ctx context.Context, organizerID string, input CreateMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, id string) (*models.Match, error)
	ListMatches(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error)
	ListMatchesByUser(ctx context.Context, userID string) ([]models.Match, error)
	UpdateMatch(ctx context.Context, id, callerID string, input UpdateMatchInput) (*models.Match, error)
	ChangeStatus(ctx context.Context, id, callerID string, newStatus models.MatchStatus) (*models.Match, error)
	SetWinner(ctx context.Context, id, callerID string, winner models.MatchResult) (*models.Match, error)
	CancelExpiredMatches(ctx context.Context) error
}

type CreateMatchInput struct {
	SportID         string  `json:"deporteId"`
	ZoneID          string  `json:"zonaId"`
	OrganizerID     string  `json:"organizadorId"`
	Date            string  `json:"fecha"`
	Time            string  `json:"hora"`
	DurationHours   float64 `json:"duracion"`
	Address         string  `json:"direccion"`
	RequiredPlayers int     `json:"cantidadJugadores"`
	Strategy        string  `json:"tipoEmparejamiento"`
	MinLevel        int     `json:"nivelMinimo"`
	MaxLevel        int     `json:"nivelMaximo"`
}

type UpdateMatchInput struct {
	SportID         *string  `json:"deporteId"`
	ZoneID          *string  `json:"zonaId"`
	Date            *string  `json:"fecha"`
	Time            *string  `json:"hora"`
	DurationHours   *float64 `json:"duracion"`
	Address         *string  `json:"direccion"`
	RequiredPlayers *int     `json:"cantidadJugadores"`
	Strategy        *string  `json:"tipoEmparejamiento"`
	MinLevel        *int     `json:"nivelMinimo"`
	MaxLevel        *int     `json:"nivelMaximo"`
}

type matchService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	sportRepo       repositories.SportRepository
	zoneRepo        repositories.ZoneRepository
	userRepo        repositories.UserRepository
	notifier        Notifier
	logger          *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	sportRepo repositories.SportRepository,
	zoneRepo repositories.ZoneRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:              db,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		sportRepo:       sportRepo,
		zoneRepo:        zoneRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

const dateLayout = "2006-01-02"

func (s *matchService) CreateMatch(ctx context.Context, organizerID string, input CreateMatchInput) (*models.Match, error) {
	if input.SportID == "" || input.ZoneID == "" || input.Date == "" || input.Time == "" || input.Address == "" {
		return nil, fmt.Errorf("%w: deporteId, zonaId, fecha, hora and direccion are required", ErrValidationFailed)
	}
	if input.RequiredPlayers <= 0 {
		return nil, ErrInvalidCapacity
	}
	// Тело запроса несёт organizadorId; он обязан совпадать с автором запроса.
	if input.OrganizerID != "" && input.OrganizerID != organizerID {
		return nil, ErrForbiddenOperation
	}

	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha must be formatted as %s", ErrValidationFailed, dateLayout)
	}
	if _, err := time.Parse("15:04", input.Time); err != nil {
		return nil, fmt.Errorf("%w: hora must be formatted as 15:04", ErrValidationFailed)
	}

	minLevel, maxLevel := input.MinLevel, input.MaxLevel
	if minLevel == 0 {
		minLevel = models.LevelBeginner
	}
	if maxLevel == 0 {
		maxLevel = models.LevelAdvanced
	}
	if !models.IsValidLevel(minLevel) || !models.IsValidLevel(maxLevel) {
		return nil, ErrInvalidLevel
	}
	if minLevel > maxLevel {
		return nil, ErrInvalidLevelBand
	}

	strategy := models.StrategyZone
	if input.Strategy != "" {
		parsed, ok := models.ParseMatchmakingStrategy(input.Strategy)
		if !ok {
			return nil, ErrInvalidStrategy
		}
		strategy = parsed
	}

	match := &models.Match{
		ID:              uuid.NewString(),
		SportID:         input.SportID,
		ZoneID:          input.ZoneID,
		OrganizerID:     organizerID,
		Date:            date,
		Time:            input.Time,
		DurationHours:   input.DurationHours,
		Address:         input.Address,
		RequiredPlayers: input.RequiredPlayers,
		MinLevel:        minLevel,
		MaxLevel:        maxLevel,
		Strategy:        strategy,
		Status:          models.StatusNeedsPlayers,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, s.mapMatchRepoError(err)
	}

	return match, nil
}

// GetMatchByID возвращает партид с деталями: спорт, зона, организатор,
// участники. Клиент выводит из них isPlayerJoined и isOrganizer.
func (s *matchService) GetMatchByID(ctx context.Context, id string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapMatchRepoError(err)
	}

	if sport, err := s.sportRepo.GetByID(ctx, match.SportID); err == nil {
		match.Sport = sport
	}
	if zone, err := s.zoneRepo.GetByID(ctx, match.ZoneID); err == nil {
		match.Zone = zone
	}
	if organizer, err := s.userRepo.GetByID(ctx, match.OrganizerID); err == nil {
		organizer.PasswordHash = ""
		match.Organizer = organizer
	}

	participants, err := s.participantRepo.ListByMatch(ctx, match.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants for match %s: %w", match.ID, err)
	}
	match.Participants = participants

	return match, nil
}

// ListMatches возвращает партиды с подгруженными справочниками (спорт, зона),
// чтобы поверх результата можно было фильтровать по названию зоны.
func (s *matchService) ListMatches(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error) {
	matches, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	if err := s.attachReferenceData(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *matchService) ListMatchesByUser(ctx context.Context, userID string) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for user %s: %w", userID, err)
	}
	if err := s.attachReferenceData(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// attachReferenceData подгружает спорт и зону для каждого партида одним
// запросом на справочник, а не по строке на партид.
func (s *matchService) attachReferenceData(ctx context.Context, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	sports, err := s.sportRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sports: %w", err)
	}
	zones, err := s.zoneRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load zones: %w", err)
	}

	sportByID := make(map[string]*models.Sport, len(sports))
	for i := range sports {
		sportByID[sports[i].ID] = &sports[i]
	}
	zoneByID := make(map[string]*models.Zone, len(zones))
	for i := range zones {
		zoneByID[zones[i].ID] = &zones[i]
	}

	for i := range matches {
		matches[i].Sport = sportByID[matches[i].SportID]
		matches[i].Zone = zoneByID[matches[i].ZoneID]
	}
	return nil
}

func (s *matchService) UpdateMatch(ctx context.Context, id, callerID string, input UpdateMatchInput) (*models.Match, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Проверка вместимости против подтверждённых игроков должна видеть
	// актуальное число, поэтому строка партида блокируется, как при входе.
	match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, s.mapMatchRepoError(err)
	}
	if match.OrganizerID != callerID {
		return nil, ErrNotOrganizer
	}
	if match.Status.IsTerminal() || match.Status == models.StatusInProgress {
		return nil, ErrMatchUpdateNotAllowed
	}

	if input.SportID != nil {
		match.SportID = *input.SportID
	}
	if input.ZoneID != nil {
		match.ZoneID = *input.ZoneID
	}
	if input.Date != nil {
		date, parseErr := time.Parse(dateLayout, *input.Date)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: fecha must be formatted as %s", ErrValidationFailed, dateLayout)
		}
		match.Date = date
	}
	if input.Time != nil {
		if _, parseErr := time.Parse("15:04", *input.Time); parseErr != nil {
			return nil, fmt.Errorf("%w: hora must be formatted as 15:04", ErrValidationFailed)
		}
		match.Time = *input.Time
	}
	if input.DurationHours != nil {
		match.DurationHours = *input.DurationHours
	}
	if input.Address != nil {
		match.Address = *input.Address
	}
	if input.RequiredPlayers != nil {
		if *input.RequiredPlayers <= 0 {
			return nil, ErrInvalidCapacity
		}
		// Нельзя урезать вместимость ниже уже подтверждённых игроков.
		if *input.RequiredPlayers < match.ConfirmedPlayers {
			return nil, fmt.Errorf("%w: cantidadJugadores is below the confirmed player count", ErrValidationFailed)
		}
		match.RequiredPlayers = *input.RequiredPlayers
	}
	if input.Strategy != nil {
		strategy, ok := models.ParseMatchmakingStrategy(*input.Strategy)
		if !ok {
			return nil, ErrInvalidStrategy
		}
		match.Strategy = strategy
	}
	if input.MinLevel != nil {
		match.MinLevel = *input.MinLevel
	}
	if input.MaxLevel != nil {
		match.MaxLevel = *input.MaxLevel
	}
	if !models.IsValidLevel(match.MinLevel) || !models.IsValidLevel(match.MaxLevel) {
		return nil, ErrInvalidLevel
	}
	if match.MinLevel > match.MaxLevel {
		return nil, ErrInvalidLevelBand
	}

	// Смена вместимости пересчитывает автоматический статус набора:
	// расширенный ARMADO снова набирает игроков, а сжатый до текущего
	// состава NECESITAMOS_JUGADORES становится ARMADO.
	previousStatus := match.Status
	switch {
	case match.Status == models.StatusFormed && match.ConfirmedPlayers < match.RequiredPlayers:
		match.Status = models.StatusNeedsPlayers
	case match.Status == models.StatusNeedsPlayers && match.ConfirmedPlayers >= match.RequiredPlayers:
		match.Status = models.StatusFormed
	}

	if err := s.matchRepo.Update(ctx, tx, match); err != nil {
		return nil, s.mapMatchRepoError(err)
	}
	if match.Status != previousStatus {
		if err := s.matchRepo.UpdateStatus(ctx, tx, id, match.Status); err != nil {
			return nil, s.mapMatchRepoError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match update: %w", err)
	}

	if match.Status != previousStatus {
		s.notifyParticipants(ctx, match, notifications.Event{
			Type:    notifications.EventMatchStatusChanged,
			MatchID: match.ID,
			Payload: map[string]interface{}{"estado": match.Status},
		})
	}

	return s.GetMatchByID(ctx, id)
}

// ChangeStatus выполняет ручной переход жизненного цикла. Организатору
// доступны только ARMADO -> CONFIRMADO, CONFIRMADO -> EN_JUEGO и отмена из
// любого нетерминального статуса; ARMADO выставляется автоматически при
// наборе игроков, FINALIZADO — только через SetWinner.
func (s *matchService) ChangeStatus(ctx context.Context, id, callerID string, newStatus models.MatchStatus) (*models.Match, error) {
	if models.ParseMatchStatus(string(newStatus)) == models.StatusUnknown {
		return nil, ErrMatchInvalidStatus
	}
	if newStatus == models.StatusFinished {
		// Завершение требует результата; для него есть отдельная операция.
		return nil, ErrMatchInvalidStatusTransition
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, s.mapMatchRepoError(err)
	}
	if match.OrganizerID != callerID {
		return nil, ErrNotOrganizer
	}
	if match.Status.IsTerminal() {
		return nil, ErrMatchTerminal
	}

	manual := newStatus == models.StatusCanceled ||
		(match.Status == models.StatusFormed && newStatus == models.StatusConfirmed) ||
		(match.Status == models.StatusConfirmed && newStatus == models.StatusInProgress)
	if !manual || !match.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrMatchInvalidStatusTransition, match.Status, newStatus)
	}

	if err := s.matchRepo.UpdateStatus(ctx, tx, id, newStatus); err != nil {
		return nil, s.mapMatchRepoError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}

	s.notifyParticipants(ctx, match, notifications.Event{
		Type:    notifications.EventMatchStatusChanged,
		MatchID: match.ID,
		Payload: map[string]interface{}{"estado": newStatus},
	})

	return s.GetMatchByID(ctx, id)
}

// SetWinner завершает партид EN_JUEGO с результатом: победа стороны A или B
// либо явная ничья (EMPATE).
func (s *matchService) SetWinner(ctx context.Context, id, callerID string, winner models.MatchResult) (*models.Match, error) {
	if _, ok := models.ParseMatchResult(string(winner)); !ok {
		return nil, ErrInvalidWinner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, s.mapMatchRepoError(err)
	}
	if match.OrganizerID != callerID {
		return nil, ErrNotOrganizer
	}
	if match.Status != models.StatusInProgress {
		if match.Status.IsTerminal() {
			return nil, ErrMatchTerminal
		}
		return nil, ErrMatchNotInProgress
	}

	if err := s.matchRepo.SetWinner(ctx, tx, id, winner); err != nil {
		return nil, s.mapMatchRepoError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit winner: %w", err)
	}

	s.notifyParticipants(ctx, match, notifications.Event{
		Type:    notifications.EventMatchStatusChanged,
		MatchID: match.ID,
		Payload: map[string]interface{}{"estado": models.StatusFinished, "equipoGanador": winner},
	})

	return s.GetMatchByID(ctx, id)
}

// CancelExpiredMatches отменяет партиды, чьё расписанное время прошло, а
// игроки так и не подтвердились. Запускается планировщиком.
func (s *matchService) CancelExpiredMatches(ctx context.Context) error {
	expired, err := s.matchRepo.ListExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to list expired matches: %w", err)
	}

	for i := range expired {
		match := &expired[i]
		if err := s.matchRepo.UpdateStatus(ctx, nil, match.ID, models.StatusCanceled); err != nil {
			s.logger.Error("failed to auto-cancel expired match",
				slog.String("match_id", match.ID), slog.Any("error", err))
			continue
		}
		s.logger.Info("expired match canceled",
			slog.String("match_id", match.ID), slog.String("previous_status", string(match.Status)))
		s.notifyParticipants(ctx, match, notifications.Event{
			Type:    notifications.EventMatchStatusChanged,
			MatchID: match.ID,
			Payload: map[string]interface{}{"estado": models.StatusCanceled},
		})
	}
	return nil
}

// notifyParticipants шлёт событие организатору и всем участникам партида.
// Ошибка загрузки участников не валит исходную операцию.
func (s *matchService) notifyParticipants(ctx context.Context, match *models.Match, event notifications.Event) {
	recipients := []string{match.OrganizerID}
	participants, err := s.participantRepo.ListByMatch(ctx, match.ID, false)
	if err != nil {
		s.logger.Error("failed to load participants for notification",
			slog.String("match_id", match.ID), slog.Any("error", err))
	} else {
		for _, p := range participants {
			recipients = append(recipients, p.UserID)
		}
	}
	s.notifier.NotifyUsers(recipients, event)
}

func (s *matchService) mapMatchRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchInvalidSport):
		return ErrSportNotFound
	case errors.Is(err, repositories.ErrMatchInvalidZone):
		return ErrZoneNotFound
	case errors.Is(err, repositories.ErrMatchInvalidOrganizer):
		return ErrUserNotFound
	default:
		return err
	}
}
