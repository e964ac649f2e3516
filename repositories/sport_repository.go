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
	ErrSportNotFound     = errors.New("sport not found")
	ErrSportNameConflict = errors.New("sport name is already in use")
)

type SportRepository interface {
	Create(ctx context.Context, sport *models.Sport) error
	GetByID(ctx context.Context, id string) (*models.Sport, error)
	List(ctx context.Context) ([]models.Sport, error)
	UpdateIconKey(ctx context.Context, sportID string, iconKey *string) error
}

type postgresSportRepository struct {
	db *sql.DB
}

func NewPostgresSportRepository(db *sql.DB) SportRepository {
	return &postgresSportRepository{db: db}
}

func (r *postgresSportRepository) Create(ctx context.Context, s *models.Sport) error {
	query := `INSERT INTO sports (id, name) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "sports_name_key" {
				return ErrSportNameConflict
			}
		}
		return fmt.Errorf("failed to create sport: %w", err)
	}
	return nil
}

func (r *postgresSportRepository) GetByID(ctx context.Context, id string) (*models.Sport, error) {
	s := &models.Sport{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, icon_key FROM sports WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.IconKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSportNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresSportRepository) List(ctx context.Context) ([]models.Sport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, icon_key FROM sports ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sports := make([]models.Sport, 0)
	for rows.Next() {
		var s models.Sport
		if scanErr := rows.Scan(&s.ID, &s.Name, &s.IconKey); scanErr != nil {
			return nil, scanErr
		}
		sports = append(sports, s)
	}
	return sports, rows.Err()
}

func (r *postgresSportRepository) UpdateIconKey(ctx context.Context, sportID string, iconKey *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sports SET icon_key = $1 WHERE id = $2`, iconKey, sportID)
	if err != nil {
		return fmt.Errorf("failed to update sport icon key: %w", err)
	}
	return checkAffectedRows(result, ErrSportNotFound)
}
