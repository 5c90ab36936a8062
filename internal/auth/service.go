// backend/internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/models"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenTTL = 24 * time.Hour
	msgTaken = "Username or email already taken"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo      *Repository
	jwtSecret []byte
}

func NewService(repo *Repository, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(user)
}

func (s *Service) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

// ParseToken checks signature and expiry and returns who the token is for.
func (s *Service) ParseToken(raw string) (Identity, error) {
	return parseToken(raw, s.jwtSecret)
}

func (s *Service) Register(ctx context.Context, user *models.User) error {
	user.Username = strings.TrimSpace(user.Username)
	if user.Role != models.RoleInstructor && user.Role != models.RoleStudent {
		return apperr.Validation("Role must be %s or %s", models.RoleInstructor, models.RoleStudent)
	}

	if err := s.checkAvailable(ctx, user); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// A concurrent registration can claim the name between the check
		// and the insert.
		if taken, _ := s.repo.Taken(ctx, user.Username, user.Email); taken {
			return apperr.Conflict(msgTaken)
		}
		return apperr.Persistence("Registration failed", fmt.Errorf("create user %s: %w", user.Username, err))
	}
	return nil
}

func (s *Service) checkAvailable(ctx context.Context, user *models.User) error {
	taken, err := s.repo.Taken(ctx, user.Username, user.Email)
	if err != nil {
		return apperr.Persistence("Registration failed", err)
	}
	if taken {
		return apperr.Conflict(msgTaken)
	}
	return nil
}

// ParseDashboardToken lets the websocket hub authenticate connections.
func (s *Service) ParseDashboardToken(raw string) (uint, string, error) {
	id, err := s.ParseToken(raw)
	if err != nil {
		return 0, "", err
	}
	return id.UserID, id.Role, nil
}
