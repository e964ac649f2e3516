package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rufinoratti/zonadepor-api/models"
)

var (
	ErrParticipantNotFound     = errors.New("participant not found")
	ErrParticipantConflict     = errors.New("participant conflict: user already joined this match")
	ErrParticipantUserInvalid  = errors.New("participant user reference invalid")
	ErrParticipantMatchInvalid = errors.New("participant match reference invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	FindByUserAndMatch(ctx context.Context, exec SQLExecutor, userID, matchID string) (*models.Participant, error)
	ListByMatch(ctx context.Context, matchID string, includeUsers bool) ([]models.Participant, error)
	CountByMatch(ctx context.Context, exec SQLExecutor, matchID string) (int, error)
	Delete(ctx context.Context, exec SQLExecutor, id string) error
	// SharedFinishedMatchUserIDs возвращает пользователей, игравших с userID
	// в завершённых партидах (стратегия подбора HISTORIAL).
	SharedFinishedMatchUserIDs(ctx context.Context, userID string) ([]string, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO participants (id, match_id, user_id, team)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		p.ID, p.MatchID, p.UserID, p.Team,
	).Scan(&p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "participants_match_id_user_id_key" {
					return ErrParticipantConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "participants_user_id_fkey":
					return ErrParticipantUserInvalid
				case "participants_match_id_fkey":
					return ErrParticipantMatchInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) FindByUserAndMatch(ctx context.Context, exec SQLExecutor, userID, matchID string) (*models.Participant, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, user_id, team, created_at
		FROM participants
		WHERE user_id = $1 AND match_id = $2`

	p := &models.Participant{}
	err := executor.QueryRowContext(ctx, query, userID, matchID).Scan(
		&p.ID, &p.MatchID, &p.UserID, &p.Team, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByMatch(ctx context.Context, matchID string, includeUsers bool) ([]models.Participant, error) {
	executor := r.getExecutor(nil)

	if !includeUsers {
		query := `
			SELECT id, match_id, user_id, team, created_at
			FROM participants
			WHERE match_id = $1
			ORDER BY created_at ASC`
		rows, err := executor.QueryContext(ctx, query, matchID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		participants := make([]models.Participant, 0)
		for rows.Next() {
			var p models.Participant
			if scanErr := rows.Scan(&p.ID, &p.MatchID, &p.UserID, &p.Team, &p.CreatedAt); scanErr != nil {
				return nil, scanErr
			}
			participants = append(participants, p)
		}
		return participants, rows.Err()
	}

	query := `
		SELECT p.id, p.match_id, p.user_id, p.team, p.created_at,
		       u.id, u.name, u.email, u.level, u.zone_id, u.sport_id
		FROM participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.match_id = $1
		ORDER BY p.created_at ASC`

	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		var u models.User
		if scanErr := rows.Scan(
			&p.ID, &p.MatchID, &p.UserID, &p.Team, &p.CreatedAt,
			&u.ID, &u.Name, &u.Email, &u.Level, &u.ZoneID, &u.SportID,
		); scanErr != nil {
			return nil, scanErr
		}
		p.User = &u
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) CountByMatch(ctx context.Context, exec SQLExecutor, matchID string) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE match_id = $1`, matchID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) SharedFinishedMatchUserIDs(ctx context.Context, userID string) ([]string, error) {
	executor := r.getExecutor(nil)
	query := `
		SELECT DISTINCT other.user_id
		FROM participants own
		JOIN participants other ON other.match_id = own.match_id AND other.user_id <> own.user_id
		JOIN matches m ON m.id = own.match_id
		WHERE own.user_id = $1 AND m.status = $2`

	rows, err := executor.QueryContext(ctx, query, userID, models.StatusFinished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, scanErr
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
