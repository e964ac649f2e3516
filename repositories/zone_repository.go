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
	ErrZoneNotFound     = errors.New("zone not found")
	ErrZoneNameConflict = errors.New("zone name is already in use")
)

type ZoneRepository interface {
	Create(ctx context.Context, zone *models.Zone) error
	GetByID(ctx context.Context, id string) (*models.Zone, error)
	List(ctx context.Context) ([]models.Zone, error)
}

type postgresZoneRepository struct {
	db *sql.DB
}

func NewPostgresZoneRepository(db *sql.DB) ZoneRepository {
	return &postgresZoneRepository{db: db}
}

func (r *postgresZoneRepository) Create(ctx context.Context, z *models.Zone) error {
	query := `INSERT INTO zones (id, name) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, z.ID, z.Name)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "zones_name_key" {
				return ErrZoneNameConflict
			}
		}
		return fmt.Errorf("failed to create zone: %w", err)
	}
	return nil
}

func (r *postgresZoneRepository) GetByID(ctx context.Context, id string) (*models.Zone, error) {
	z := &models.Zone{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM zones WHERE id = $1`, id,
	).Scan(&z.ID, &z.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return z, nil
}

func (r *postgresZoneRepository) List(ctx context.Context) ([]models.Zone, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM zones ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := make([]models.Zone, 0)
	for rows.Next() {
		var z models.Zone
		if scanErr := rows.Scan(&z.ID, &z.Name); scanErr != nil {
			return nil, scanErr
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
