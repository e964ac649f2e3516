package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/repositories"
	"github.com/rufinoratti/zonadepor-api/storage"
)

type UserService interface {
	GetProfileByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*models.User, error)
	// UpdateFirebaseToken привязывает push-токен к пользователю; доставкой
	// занимается внешний сервис.
	UpdateFirebaseToken(ctx context.Context, id string, token string) error
	UploadAvatar(ctx context.Context, id string, contentType string, reader io.Reader) (*models.User, error)
}

type UpdateProfileInput struct {
	Name    *string `json:"nombre"`
	Email   *string `json:"email"`
	Level   *int    `json:"nivel"`
	ZoneID  *string `json:"zonaId"`
	SportID *string `json:"deporteId"`
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader) UserService {
	return &userService{
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (s *userService) GetProfileByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.fillAvatarURL(user)
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Level != nil {
		if !models.IsValidLevel(*input.Level) {
			return nil, ErrInvalidLevel
		}
		user.Level = *input.Level
	}
	if input.ZoneID != nil {
		user.ZoneID = input.ZoneID
	}
	if input.SportID != nil {
		user.SportID = input.SportID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrAuthEmailTaken
		}
		return nil, err
	}

	s.fillAvatarURL(user)
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateFirebaseToken(ctx context.Context, id string, token string) error {
	if token == "" {
		return fmt.Errorf("%w: firebase token is required", ErrValidationFailed)
	}
	if err := s.userRepo.UpdateFirebaseToken(ctx, id, token); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) UploadAvatar(ctx context.Context, id string, contentType string, reader io.Reader) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s/%s", id, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := user.AvatarKey
	if err := s.userRepo.UpdateAvatarKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}
	// Старый аватар больше не нужен; ошибка удаления не критична.
	if oldKey != nil {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	user.AvatarKey = &result.Key
	s.fillAvatarURL(user)
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) fillAvatarURL(user *models.User) {
	if user.AvatarKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*user.AvatarKey)
		user.AvatarURL = &url
	}
}
