package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Prince5598/Cloud-Storage/models"
	"github.com/Prince5598/Cloud-Storage/repositories"
	"github.com/Prince5598/Cloud-Storage/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type LoginOutput struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// TokenIssuer signs session tokens for a subject.
type TokenIssuer interface {
	Issue(subject, email string) (string, error)
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (AuthUser, error)
	Login(ctx context.Context, in LoginInput) (LoginOutput, error)
	GetProfile(ctx context.Context, userID string) (AuthUser, error)
}

type authService struct {
	txManager TxManager
	users     repositories.UserRepository
	tokens    TokenIssuer
}

func NewAuthService(txManager TxManager, users repositories.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{txManager: txManager, users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (AuthUser, error) {
	email, fieldErrs := validateRegistration(in)
	if len(fieldErrs) > 0 {
		return AuthUser{}, newAppErrorWithData(http.StatusBadRequest, "invalid registration", fieldErrs, ErrInvalidInput)
	}

	count, err := s.users.CountByEmail(ctx, email)
	if err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to check email", err)
	}
	if count > 0 {
		return AuthUser{}, newAppError(http.StatusBadRequest, "email already registered", ErrInvalidInput)
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to hash password", err)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hashedPassword,
	}
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.users.Create(ctx, tx, &user)
	})
	if err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to create user", err)
	}

	return AuthUser{ID: user.ID, Email: user.Email}, nil
}

var validate = validator.New()

func validateRegistration(in RegisterInput) (string, map[string]string) {
	fieldErrs := map[string]string{}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Var(email, "required,email"); err != nil {
		fieldErrs["email"] = "Please enter a valid email address"
	}
	if len(in.Password) < minPasswordLength {
		fieldErrs["password"] = "Password must be at least 6 characters"
	}
	if in.Password != in.PasswordConfirm {
		fieldErrs["passwordConfirm"] = "Passwords don't match"
	}
	return email, fieldErrs
}

func (s *authService) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginOutput{}, newAppError(http.StatusUnauthorized, "invalid email or password", ErrUnauthorized)
		}
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	if !utils.CheckPassword(in.Password, user.Password) {
		return LoginOutput{}, newAppError(http.StatusUnauthorized, "invalid email or password", ErrUnauthorized)
	}

	if s.tokens == nil {
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "token issuing is not configured", nil)
	}
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to generate token", err)
	}

	return LoginOutput{
		Token: token,
		User:  AuthUser{ID: user.ID, Email: user.Email},
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (AuthUser, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthUser{}, notFoundError("user not found")
		}
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}
	return AuthUser{ID: user.ID, Email: user.Email}, nil
}
