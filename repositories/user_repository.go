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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email address is already in use")
)

// ListUsersFilter отбирает кандидатов для стратегий подбора игроков.
type ListUsersFilter struct {
	ZoneID   *string
	SportID  *string
	MinLevel *int
	MaxLevel *int
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateFirebaseToken(ctx context.Context, userID string, token string) error
	UpdateAvatarKey(ctx context.Context, userID string, avatarKey *string) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `
	id, name, email, password_hash, level, zone_id, sport_id, firebase_token, avatar_key, created_at`

func scanUser(row interface{ Scan(...interface{}) error }, u *models.User) error {
	return row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Level,
		&u.ZoneID, &u.SportID, &u.FirebaseToken, &u.AvatarKey, &u.CreatedAt,
	)
}

func (r *postgresUserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, level, zone_id, sport_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Level, u.ZoneID, u.SportID,
	).Scan(&u.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, id), u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`

	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, email), u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) List(ctx context.Context, filter ListUsersFilter) ([]models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.ZoneID != nil {
		query += fmt.Sprintf(" AND zone_id = $%d", argID)
		args = append(args, *filter.ZoneID)
		argID++
	}
	if filter.SportID != nil {
		query += fmt.Sprintf(" AND sport_id = $%d", argID)
		args = append(args, *filter.SportID)
		argID++
	}
	if filter.MinLevel != nil {
		query += fmt.Sprintf(" AND level >= $%d", argID)
		args = append(args, *filter.MinLevel)
		argID++
	}
	if filter.MaxLevel != nil {
		query += fmt.Sprintf(" AND level <= $%d", argID)
		args = append(args, *filter.MaxLevel)
		argID++
	}

	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if scanErr := scanUser(rows, &u); scanErr != nil {
			return nil, scanErr
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users SET
			name = $1,
			email = $2,
			password_hash = $3,
			level = $4,
			zone_id = $5,
			sport_id = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Level, u.ZoneID, u.SportID, u.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateFirebaseToken(ctx context.Context, userID string, token string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET firebase_token = $1 WHERE id = $2`, token, userID)
	if err != nil {
		return fmt.Errorf("failed to update firebase token: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateAvatarKey(ctx context.Context, userID string, avatarKey *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar_key = $1 WHERE id = $2`, avatarKey, userID)
	if err != nil {
		return fmt.Errorf("failed to update user avatar key: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
