package services

import (
	"context"
	"log"
	"strings"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
)

// LoginInput identifies the user by exactly one of email or username.
type LoginInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token  string
	Claims *sessions.Claims
	User   *models.User
}

type AuthService struct {
	userRepo repositories.UserRepositoryImpl
	tokens   *sessions.TokenManager
}

func NewAuthService(userRepo repositories.UserRepositoryImpl, tokens *sessions.TokenManager) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	if (email == "") == (username == "") {
		return nil, apperrors.InvalidArgument("provide either email or username, not both")
	}
	if input.Password == "" {
		return nil, apperrors.Validation(map[string]string{"password": "is required"})
	}

	var (
		user *models.User
		err  error
	)
	if email != "" {
		user, err = s.userRepo.FindByEmail(ctx, email)
	} else {
		user, err = s.userRepo.FindByUsername(ctx, username)
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if user == nil || !helpers.PasswordCompare(user.Password, []byte(input.Password)) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		log.Printf("AuthService.Login: %v", err)
		return nil, err
	}
	return &LoginResult{Token: token, Claims: claims, User: user}, nil
}

func (s *AuthService) VerifyToken(token string) (*sessions.Claims, error) {
	return s.tokens.Verify(token)
}

func (s *AuthService) Tokens() *sessions.TokenManager {
	return s.tokens
}
