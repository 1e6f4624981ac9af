package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// AuthService checks credentials and issues tokens. Credential checks also
// reconcile moderation state: a suspension whose end date has passed is
// lifted here rather than by an explicit moderator action.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GenerateToken(user *models.User) (string, error)
}

type authService struct {
	users  repository.UserRepository
	secret []byte
	// now is injectable so the suspension auto-lapse is testable.
	now func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, jwtSecret string) AuthService {
	return &authService{users: users, secret: []byte(jwtSecret), now: time.Now}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, models.NewUnauthorizedError("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, models.NewUnauthorizedError("invalid credentials")
	}

	switch user.Status {
	case models.UserStatusBanned:
		return "", nil, models.NewForbiddenError(
			fmt.Sprintf("account is banned: %s", user.ModerationReason))
	case models.UserStatusSuspended:
		if !user.SuspensionLapsed(s.now()) {
			return "", nil, models.NewForbiddenError(
				fmt.Sprintf("account is suspended until %s", user.SuspensionEndDate.Format(time.RFC3339)))
		}
		// The suspension window has passed; reactivate before evaluating
		// the login.
		user.Status = models.UserStatusActive
		user.SuspensionEndDate = nil
		user.ModerationReason = ""
		if err := s.users.Update(ctx, user); err != nil {
			return "", nil, models.NewInternalError(err)
		}
		observability.Logger.InfoContext(ctx, "suspension lapsed, account reactivated",
			"user_id", user.ID)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

// GenerateToken issues a signed HS256 token for the user.
func (s *authService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"iss": "ideahub-api",
		"aud": "ideahub-client",
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
