package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/repositories"
)

type ZoneService interface {
	List(ctx context.Context) ([]models.Zone, error)
	GetByID(ctx context.Context, id string) (*models.Zone, error)
	Create(ctx context.Context, name string) (*models.Zone, error)
}

type zoneService struct {
	zoneRepo repositories.ZoneRepository
}

func NewZoneService(zoneRepo repositories.ZoneRepository) ZoneService {
	return &zoneService{zoneRepo: zoneRepo}
}

func (s *zoneService) List(ctx context.Context) ([]models.Zone, error) {
	return s.zoneRepo.List(ctx)
}

func (s *zoneService) GetByID(ctx context.Context, id string) (*models.Zone, error) {
	zone, err := s.zoneRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrZoneNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return zone, nil
}

func (s *zoneService) Create(ctx context.Context, name string) (*models.Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: zone name is required", ErrValidationFailed)
	}

	zone := &models.Zone{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.zoneRepo.Create(ctx, zone); err != nil {
		if errors.Is(err, repositories.ErrZoneNameConflict) {
			return nil, fmt.Errorf("%w: zone %q already exists", ErrValidationFailed, name)
		}
		return nil, err
	}
	return zone, nil
}
