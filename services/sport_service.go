package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/repositories"
	"github.com/rufinoratti/zonadepor-api/storage"
)

// SportService отдаёт справочник видов спорта и управляет их иконками.
type SportService interface {
	List(ctx context.Context) ([]models.Sport, error)
	GetByID(ctx context.Context, id string) (*models.Sport, error)
	Create(ctx context.Context, name string) (*models.Sport, error)
	UploadIcon(ctx context.Context, id string, contentType string, reader io.Reader) (*models.Sport, error)
}

type sportService struct {
	sportRepo repositories.SportRepository
	uploader  storage.FileUploader
}

func NewSportService(sportRepo repositories.SportRepository, uploader storage.FileUploader) SportService {
	return &sportService{
		sportRepo: sportRepo,
		uploader:  uploader,
	}
}

func (s *sportService) List(ctx context.Context) ([]models.Sport, error) {
	sports, err := s.sportRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sports {
		s.fillIconURL(&sports[i])
	}
	return sports, nil
}

func (s *sportService) GetByID(ctx context.Context, id string) (*models.Sport, error) {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return nil, ErrSportNotFound
		}
		return nil, err
	}
	s.fillIconURL(sport)
	return sport, nil
}

func (s *sportService) Create(ctx context.Context, name string) (*models.Sport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: sport name is required", ErrValidationFailed)
	}

	sport := &models.Sport{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.sportRepo.Create(ctx, sport); err != nil {
		if errors.Is(err, repositories.ErrSportNameConflict) {
			return nil, fmt.Errorf("%w: sport %q already exists", ErrValidationFailed, name)
		}
		return nil, err
	}
	return sport, nil
}

func (s *sportService) UploadIcon(ctx context.Context, id string, contentType string, reader io.Reader) (*models.Sport, error) {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return nil, ErrSportNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("sports/%s/%s", id, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload sport icon: %w", err)
	}

	oldKey := sport.IconKey
	if err := s.sportRepo.UpdateIconKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	sport.IconKey = &result.Key
	s.fillIconURL(sport)
	return sport, nil
}

func (s *sportService) fillIconURL(sport *models.Sport) {
	if sport.IconKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*sport.IconKey)
		sport.IconURL = &url
	}
}
