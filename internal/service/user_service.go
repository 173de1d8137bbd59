package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/repository"
	"github.com/Freeeeeet/turf_bot/internal/validation"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// RegisterUser creates the user on first /start and refreshes Telegram fields afterwards
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode

		if err := s.userRepo.UpdateTelegramInfo(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Debug("User refreshed",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
	}
	// single-word display name from Telegram; the user may change it in /profile
	if validation.DisplayName(username) == nil {
		user.DisplayName = username
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)

	return user, nil
}

func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ProfileInput is the editable part of a user profile
type ProfileInput struct {
	DisplayName string
	Email       string
	Phone       string
}

// Validate returns the first field that fails validation
func (p ProfileInput) Validate() error {
	if err := validation.DisplayName(p.DisplayName); err != nil {
		return err
	}
	if err := validation.Email(p.Email); err != nil {
		return err
	}
	if p.Phone != "" {
		if err := validation.Phone(p.Phone); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProfile validates and stores the profile. Validation errors are *validation.FieldError.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, input ProfileInput) error {
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)

	if err := input.Validate(); err != nil {
		return err
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, input.DisplayName, input.Email, input.Phone); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("Profile updated", zap.Int64("user_id", userID))
	return nil
}

// Logout clears the profile but keeps the phone number for the next sign-in
func (s *UserService) Logout(ctx context.Context, userID int64) error {
	if err := s.userRepo.ClearProfile(ctx, userID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.logger.Info("User logged out", zap.Int64("user_id", userID))
	return nil
}
