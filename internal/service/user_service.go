package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/availability"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"go.uber.org/zap"
)

const (
	maxSubjects      = 20
	maxSubjectLength = 100
	defaultPageSize  = 50
)

type RegisterInput struct {
	TelegramID *int64  `json:"telegram_id" validate:"required_without=Email"`
	Email      *string `json:"email" validate:"omitempty,email,max=254"`
	Username   string  `json:"username" validate:"max=64"`
	FirstName  string  `json:"first_name" validate:"max=64"`
	LastName   string  `json:"last_name" validate:"max=64"`
	Timezone   string  `json:"timezone" validate:"omitempty,timezone"`
}

type ProfileInput struct {
	Username  string `json:"username" validate:"max=64"`
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name" validate:"max=64"`
	Bio       string `json:"bio" validate:"max=1000"`
	Timezone  string `json:"timezone" validate:"omitempty,timezone"`
}

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

// RegisterTelegramUser регистрирует или обновляет пользователя Telegram
func (s *UserService) RegisterTelegramUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*model.User, error) {
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем имя из Telegram
	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName

		if err := s.userRepo.UpdateProfile(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return existingUser, nil
	}

	return s.Register(ctx, RegisterInput{
		TelegramID: &telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	})
}

// Register создаёт нового пользователя
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		input.Email = &email

		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check existing user: %w", err)
		}
		if existing != nil {
			return nil, ErrAlreadyRegistered
		}
	}

	user := &model.User{
		TelegramID: input.TelegramID,
		Email:      input.Email,
		Username:   strings.TrimSpace(input.Username),
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Timezone:   input.Timezone,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if base.IsUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByIDs returns users keyed by id.
func (s *UserService) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// UpdateProfile обновляет имя, био и часовой пояс
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (*model.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Username = strings.TrimSpace(input.Username)
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.Bio = strings.TrimSpace(input.Bio)
	if input.Timezone != "" {
		user.Timezone = input.Timezone
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return user, nil
}

// BecomeTutor делает пользователя тьютором
func (s *UserService) BecomeTutor(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsTutor {
		return user, nil
	}

	if err := s.userRepo.SetTutor(ctx, userID, true); err != nil {
		return nil, fmt.Errorf("set tutor: %w", err)
	}
	user.IsTutor = true

	s.logger.Info("User became tutor",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, nil
}

// SetSubjects replaces the tutor's subject list.
func (s *UserService) SetSubjects(ctx context.Context, userID int64, subjects []string) ([]string, error) {
	cleaned, err := NormalizeSubjects(subjects)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateSubjects(ctx, userID, cleaned); err != nil {
		return nil, fmt.Errorf("set subjects: %w", err)
	}

	s.logger.Info("Subjects updated",
		zap.Int64("user_id", userID),
		zap.Strings("subjects", cleaned),
	)

	return cleaned, nil
}

// SetAvailability validates and stores weekly availability.
func (s *UserService) SetAvailability(ctx context.Context, userID int64, slots []model.AvailabilitySlot) ([]model.AvailabilitySlot, error) {
	normalized, err := availability.Normalize(slots)
	if err != nil {
		return nil, NewValidationError(FieldError{Field: "availability", Error: err.Error()})
	}

	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateAvailability(ctx, userID, normalized); err != nil {
		return nil, fmt.Errorf("set availability: %w", err)
	}

	s.logger.Info("Availability updated",
		zap.Int64("user_id", userID),
		zap.Int("slots", len(normalized)),
	)

	return normalized, nil
}

// ListTutors lists tutors, optionally filtered by subject.
func (s *UserService) ListTutors(ctx context.Context, subject string, limit, offset int) ([]*model.User, error) {
	if limit <= 0 || limit > defaultPageSize {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.ListTutors(ctx, strings.TrimSpace(subject), limit, offset)
}

// NormalizeSubjects trims, drops empties and de-duplicates case-insensitively.
func NormalizeSubjects(subjects []string) ([]string, error) {
	seen := make(map[string]bool, len(subjects))
	cleaned := make([]string, 0, len(subjects))

	for _, subject := range subjects {
		subject = strings.Join(strings.Fields(subject), " ")
		if subject == "" {
			continue
		}
		if len(subject) > maxSubjectLength {
			return nil, NewValidationError(FieldError{Field: "subjects", Error: fmt.Sprintf("%q is longer than %d characters", subject, maxSubjectLength)})
		}
		key := strings.ToLower(subject)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, subject)
	}

	if len(cleaned) > maxSubjects {
		return nil, NewValidationError(FieldError{Field: "subjects", Error: fmt.Sprintf("at most %d subjects", maxSubjects)})
	}

	sort.Slice(cleaned, func(i, j int) bool { return strings.ToLower(cleaned[i]) < strings.ToLower(cleaned[j]) })
	return cleaned, nil
}
