package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/go-playground/validator/v10"
)

type UserInput struct {
	Email    string      `json:"email" validate:"required,email,max=100"`
	Username string      `json:"username" validate:"required,min=3,max=100"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=admin viewer guest"`
}

type UserPatch struct {
	Email    *string      `json:"email" validate:"omitempty,email,max=100"`
	Username *string      `json:"username" validate:"omitempty,min=3,max=100"`
	Password *string      `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *models.Role `json:"role" validate:"omitempty,oneof=admin viewer guest"`
}

type UserService struct {
	userRepo  repositories.UserRepositoryImpl
	validator *validator.Validate
}

func NewUserService(userRepo repositories.UserRepositoryImpl, v *validator.Validate) *UserService {
	return &UserService{userRepo: userRepo, validator: v}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Create(ctx context.Context, input UserInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)
	if err := helpers.ValidateStruct(s.validator, input); err != nil {
		return nil, err
	}
	return s.create(ctx, s.userRepo, input)
}

func (s *UserService) create(ctx context.Context, repo repositories.UserRepositoryImpl, input UserInput) (*models.User, error) {
	if err := checkUserUnique(ctx, repo, input.Email, input.Username, ""); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:    input.Email,
		Username: input.Username,
		Password: hash,
		Role:     input.Role,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("failed to create user: %w", err))
	}
	return user, nil
}

func checkUserUnique(ctx context.Context, repo repositories.UserRepositoryImpl, email, username, excludeID string) error {
	if email != "" {
		existing, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return apperrors.Storage(err)
		}
		if existing != nil && existing.ID != excludeID {
			return apperrors.InvalidArgument("a user with email %s already exists", email)
		}
	}
	if username != "" {
		existing, err := repo.FindByUsername(ctx, username)
		if err != nil {
			return apperrors.Storage(err)
		}
		if existing != nil && existing.ID != excludeID {
			return apperrors.InvalidArgument("username %s is taken", username)
		}
	}
	return nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", id)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, filter repositories.UserFilter, params pagination.Params) (*models.Page[models.User], error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperrors.InvalidArgument("unknown role %q", filter.Role)
	}
	items, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.User]{Items: items, Total: total, Skip: params.Skip, Limit: params.Limit}, nil
}

func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		patch.Email = &email
	}
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		patch.Username = &username
	}
	if err := helpers.ValidateStruct(s.validator, patch); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var email, username string
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Username != nil {
		username = *patch.Username
	}
	if err := checkUserUnique(ctx, s.userRepo, email, username, id); err != nil {
		return nil, err
	}

	if patch.Email != nil {
		user.Email = email
	}
	if patch.Username != nil {
		user.Username = username
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Password != nil {
		hash, err := helpers.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("failed to update user: %w", err))
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to delete user: %w", err))
	}
	return nil
}
