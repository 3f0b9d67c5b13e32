package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bakery/internal/models"
	"bakery/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login of staff operators.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
		validate:   validator.New(),
		logger:     logger,
	}
}

// RegisterUser hashes the password and stores the user.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if err := s.validate.Struct(user); err != nil {
		return &Error{Kind: KindValidation, Message: "invalid user", Err: err}
	}
	if _, err := s.userRepo.GetByUsername(ctx, user.Username); err == nil {
		return &Error{Kind: KindConflict, Message: fmt.Sprintf("username '%s' already taken", user.Username)}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return NewStorage("failed to look up user", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return &Error{Kind: KindConflict, Message: fmt.Sprintf("email '%s' already registered", user.Email)}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return NewStorage("failed to look up user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fromRepo(err, "user")
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", NewUnauthorized("invalid credentials")
		}
		return "", NewStorage("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", NewUnauthorized("invalid credentials")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(s.tokenDurat).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.logger.Debug("token validation failed", zap.Error(err))
		return nil, &Error{Kind: KindUnauthorized, Message: "invalid token", Err: err}
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, NewUnauthorized("invalid token")
}
