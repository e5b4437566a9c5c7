package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"job-board-api/config"
	"job-board-api/internal/models"
	"job-board-api/internal/storage"
	"job-board-api/internal/transport/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthClaims is the payload of the bearer tokens issued by Login.
type AuthClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type userService struct {
	repo          storage.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	jwtIssuer     string
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo storage.UserRepository, cfg config.JWTConfig) UserService {
	return &userService{
		repo:          repo,
		jwtSecret:     cfg.Secret,
		jwtExpiration: cfg.Expiration,
		jwtIssuer:     cfg.Issuer,
	}
}

func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, MapRepoError(err, "creating user")
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Info("login failed: unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, MapRepoError(err, "fetching user for login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Info("login failed: invalid password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtExpiration)
	claims := &AuthClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.jwtIssuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		slog.Error("signing login token failed", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("failed to generate login token: %w", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(user),
	}, nil
}

func (s *userService) GetByID(ctx context.Context, req *dto.GetUserByIDRequest) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(err, "getting user by ID")
	}
	return user, nil
}

// ToUserResponse maps an account to its public view.
func ToUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}
