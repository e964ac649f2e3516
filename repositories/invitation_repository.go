package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rufinoratti/zonadepor-api/models"
)

var ErrInvitationNotFound = errors.New("invitation not found")

type InvitationRepository interface {
	// CreateBatch вставляет приглашения, пропуская пары (партид, пользователь),
	// у которых приглашение уже есть. Возвращает userID реально созданных.
	CreateBatch(ctx context.Context, invitations []models.Invitation) ([]string, error)
	GetByID(ctx context.Context, id string) (*models.Invitation, error)
	// ListPendingByUser возвращает ожидающие приглашения вместе с партидом.
	ListPendingByUser(ctx context.Context, userID string) ([]models.Invitation, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.InvitationStatus) error
}

type postgresInvitationRepository struct {
	db *sql.DB
}

func NewPostgresInvitationRepository(db *sql.DB) InvitationRepository {
	return &postgresInvitationRepository{db: db}
}

func (r *postgresInvitationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresInvitationRepository) CreateBatch(ctx context.Context, invitations []models.Invitation) ([]string, error) {
	if len(invitations) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO invitations (id, match_id, user_id, status)
		VALUES `
	args := make([]interface{}, 0, len(invitations)*4)
	for i, inv := range invitations {
		if i > 0 {
			query += ", "
		}
		base := i * 4
		query += fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4)
		args = append(args, inv.ID, inv.MatchID, inv.UserID, inv.Status)
	}
	// Повторный запуск подбора не дублирует приглашения.
	query += `
		ON CONFLICT (match_id, user_id) DO NOTHING
		RETURNING user_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitations: %w", err)
	}
	defer rows.Close()

	created := make([]string, 0, len(invitations))
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		created = append(created, userID)
	}
	return created, rows.Err()
}

func (r *postgresInvitationRepository) GetByID(ctx context.Context, id string) (*models.Invitation, error) {
	query := `
		SELECT id, match_id, user_id, status, created_at
		FROM invitations
		WHERE id = $1`

	inv := &models.Invitation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.MatchID, &inv.UserID, &inv.Status, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *postgresInvitationRepository) ListPendingByUser(ctx context.Context, userID string) ([]models.Invitation, error) {
	query := `
		SELECT i.id, i.match_id, i.user_id, i.status, i.created_at,` + matchColumnsPrefixed("m") + `
		FROM invitations i
		JOIN matches m ON m.id = i.match_id
		WHERE i.user_id = $1 AND i.status = $2
		ORDER BY i.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, models.InvitationPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := make([]models.Invitation, 0)
	for rows.Next() {
		var inv models.Invitation
		var m models.Match
		err := rows.Scan(
			&inv.ID, &inv.MatchID, &inv.UserID, &inv.Status, &inv.CreatedAt,
			&m.ID, &m.SportID, &m.ZoneID, &m.OrganizerID, &m.Date, &m.Time, &m.DurationHours,
			&m.Address, &m.RequiredPlayers, &m.ConfirmedPlayers, &m.MinLevel, &m.MaxLevel,
			&m.Strategy, &m.Status, &m.Winner, &m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		inv.Match = &m
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *postgresInvitationRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.InvitationStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE invitations SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInvitationNotFound)
}
