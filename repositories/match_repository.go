package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rufinoratti/zonadepor-api/models"
)

var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchInvalidSport     = errors.New("invalid sport reference")
	ErrMatchInvalidZone      = errors.New("invalid zone reference")
	ErrMatchInvalidOrganizer = errors.New("invalid organizer reference")
)

// ListMatchesFilter ограничивает выборку партидов на уровне SQL.
// Текстовый фильтр по локации и уровню применяется пакетом filters поверх
// результата, чтобы сохранить семантику подстрочного поиска клиента.
type ListMatchesFilter struct {
	SportID     *string
	ZoneID      *string
	OrganizerID *string
	Status      *models.MatchStatus
	Limit       int
	Offset      int
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	// GetByIDForUpdate блокирует строку партида до конца транзакции.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error)
	List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, error)
	ListByUser(ctx context.Context, userID string) ([]models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.MatchStatus) error
	UpdateStatusAndCount(ctx context.Context, exec SQLExecutor, id string, status models.MatchStatus, confirmedPlayers int) error
	SetWinner(ctx context.Context, exec SQLExecutor, id string, winner models.MatchResult) error
	ListExpired(ctx context.Context, currentTime time.Time) ([]models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, sport_id, zone_id, organizer_id, date, start_time, duration_hours,
	address, required_players, confirmed_players, min_level, max_level,
	strategy, status, winner, created_at`

// matchColumnsPrefixed возвращает список колонок партида с алиасом таблицы,
// для запросов с JOIN.
func matchColumnsPrefixed(alias string) string {
	columns := strings.Split(matchColumns, ",")
	for i, c := range columns {
		columns[i] = " " + alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(columns, ",")
}

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.SportID, &m.ZoneID, &m.OrganizerID, &m.Date, &m.Time, &m.DurationHours,
		&m.Address, &m.RequiredPlayers, &m.ConfirmedPlayers, &m.MinLevel, &m.MaxLevel,
		&m.Strategy, &m.Status, &m.Winner, &m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	executor := r.getExecutor(nil)
	query := `
		INSERT INTO matches (
			id, sport_id, zone_id, organizer_id, date, start_time, duration_hours,
			address, required_players, confirmed_players, min_level, max_level,
			strategy, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		m.ID, m.SportID, m.ZoneID, m.OrganizerID, m.Date, m.Time, m.DurationHours,
		m.Address, m.RequiredPlayers, m.ConfirmedPlayers, m.MinLevel, m.MaxLevel,
		m.Strategy, m.Status,
	).Scan(&m.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	return r.getByID(ctx, r.getExecutor(nil), id, false)
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error) {
	return r.getByID(ctx, r.getExecutor(exec), id, true)
}

func (r *postgresMatchRepository) getByID(ctx context.Context, executor SQLExecutor, id string, forUpdate bool) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m := &models.Match{}
	err := scanMatch(executor.QueryRowContext(ctx, query, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, error) {
	executor := r.getExecutor(nil)
	query := `SELECT` + matchColumns + ` FROM matches WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.SportID != nil {
		query += fmt.Sprintf(" AND sport_id = $%d", argID)
		args = append(args, *filter.SportID)
		argID++
	}
	if filter.ZoneID != nil {
		query += fmt.Sprintf(" AND zone_id = $%d", argID)
		args = append(args, *filter.ZoneID)
		argID++
	}
	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY date ASC, start_time ASC, created_at ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	return r.queryMatches(ctx, executor, query, args...)
}

func (r *postgresMatchRepository) ListByUser(ctx context.Context, userID string) ([]models.Match, error) {
	executor := r.getExecutor(nil)
	// Партиды, где пользователь организатор или участник.
	query := `
		SELECT DISTINCT` + matchColumns + `
		FROM matches
		WHERE organizer_id = $1
		   OR id IN (SELECT match_id FROM participants WHERE user_id = $1)
		ORDER BY date ASC, start_time ASC, created_at ASC`

	return r.queryMatches(ctx, executor, query, userID)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.Match, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := scanMatch(rows, &m); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	// status, confirmed_players and winner are owned by their specific methods
	query := `
		UPDATE matches SET
			sport_id = $1,
			zone_id = $2,
			date = $3,
			start_time = $4,
			duration_hours = $5,
			address = $6,
			required_players = $7,
			min_level = $8,
			max_level = $9,
			strategy = $10
		WHERE id = $11`

	result, err := executor.ExecContext(ctx, query,
		m.SportID, m.ZoneID, m.Date, m.Time, m.DurationHours,
		m.Address, m.RequiredPlayers, m.MinLevel, m.MaxLevel, m.Strategy,
		m.ID,
	)

	if err != nil {
		return r.handleMatchError(err)
	}

	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatusAndCount(ctx context.Context, exec SQLExecutor, id string, status models.MatchStatus, confirmedPlayers int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET status = $1, confirmed_players = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, status, confirmedPlayers, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetWinner(ctx context.Context, exec SQLExecutor, id string, winner models.MatchResult) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET winner = $1, status = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, winner, models.StatusFinished, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// ListExpired возвращает партиды, которые так и не собрались к началу:
// расписанное время прошло, а статус всё ещё NECESITAMOS_JUGADORES или ARMADO.
func (r *postgresMatchRepository) ListExpired(ctx context.Context, currentTime time.Time) ([]models.Match, error) {
	executor := r.getExecutor(nil)
	query := `
		SELECT` + matchColumns + `
		FROM matches
		WHERE status IN ($1, $2)
		  AND (date + start_time) <= $3`

	return r.queryMatches(ctx, executor, query,
		models.StatusNeedsPlayers, models.StatusFormed, currentTime)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_sport_id_fkey":
				return ErrMatchInvalidSport
			case "matches_zone_id_fkey":
				return ErrMatchInvalidZone
			case "matches_organizer_id_fkey":
				return ErrMatchInvalidOrganizer
			}
		}
	}
	return err
}
