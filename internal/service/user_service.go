package service

import (
	"context"
	"fmt"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/repository"
	"ideahub/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const usernameSuggestionAttempts = 5

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	Email             string
	Password          string
	Username          string
	FirstName         string
	LastName          string
	Role              models.UserRole
	PreferredLanguage string
	InterestIDs       []uint
}

// UpdateProfileInput is a partial profile update; nil fields are untouched.
type UpdateProfileInput struct {
	Username  *string
	FirstName *string
	LastName  *string
	Bio       *string
	Links     *map[string]string
}

// UpdatePreferencesInput is a partial account-preference update.
type UpdatePreferencesInput struct {
	Role              *models.UserRole
	PreferredLanguage *string
	InterestIDs       *[]uint
}

// UserService handles account registration and profile management.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, viewer *Viewer, limit, offset int) ([]*models.User, int64, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.SocialProfile, error)
	UpdateProfile(ctx context.Context, actorUserID uint, input UpdateProfileInput) (*models.SocialProfile, error)
	SetAvatar(ctx context.Context, actorUserID uint, avatarURL string) (*models.SocialProfile, error)
	UpdatePreferences(ctx context.Context, actorUserID uint, input UpdatePreferencesInput) (*models.User, error)
	Delete(ctx context.Context, actorUserID, targetID uint, actorAdmin bool) error
}

type userService struct {
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	categories repository.CategoryRepository
}

// NewUserService creates a new user service
func NewUserService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	categories repository.CategoryRepository,
) UserService {
	return &userService{users: users, profiles: profiles, categories: categories}
}

func validRole(role models.UserRole) bool {
	switch role {
	case models.RoleProfessional, models.RoleCreator, models.RoleInvestor:
		return true
	}
	return false
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if exists {
		return nil, models.NewValidationError("email is already registered")
	}

	role := input.Role
	if role == "" {
		role = models.RoleCreator
	}
	if !validRole(role) {
		return nil, models.NewValidationError(fmt.Sprintf("unknown role %q", input.Role))
	}

	language := "en"
	if input.PreferredLanguage != "" {
		language, err = validation.NormalizeLanguageCode(input.PreferredLanguage)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	username, err := s.chooseUsername(ctx, input.Username, email)
	if err != nil {
		return nil, err
	}

	interests, err := resolveCategorySet(ctx, s.categories, input.InterestIDs)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	profile := &models.SocialProfile{
		Username:  username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	profile.RefreshAvatarURL()

	user := &models.User{
		Email:             email,
		PasswordHash:      string(hash),
		PreferredLanguage: language,
		Role:              role,
		Status:            models.UserStatusActive,
		Interests:         interests,
		Profile:           profile,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, models.NewConflictError("email or username is already taken")
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// chooseUsername takes an explicit username when given, otherwise derives one
// from the email local part and falls back to generated names until a free
// one is found.
func (s *userService) chooseUsername(ctx context.Context, explicit, email string) (string, error) {
	if explicit != "" {
		if err := validation.ValidateUsernameAvailable(explicit); err != nil {
			return "", models.NewValidationError(err.Error())
		}
		taken, err := s.profiles.UsernameExists(ctx, explicit)
		if err != nil {
			return "", models.NewInternalError(err)
		}
		if taken {
			return "", models.NewValidationError("username is already taken")
		}
		return explicit, nil
	}

	candidates := make([]string, 0, usernameSuggestionAttempts+1)
	if at := strings.Index(email, "@"); at > 0 {
		candidates = append(candidates, sanitizeUsername(email[:at]))
	}
	for i := 0; i < usernameSuggestionAttempts; i++ {
		candidates = append(candidates, sanitizeUsername(gofakeit.Username()))
	}
	for _, candidate := range candidates {
		if validation.ValidateUsernameAvailable(candidate) != nil {
			continue
		}
		taken, err := s.profiles.UsernameExists(ctx, candidate)
		if err != nil {
			return "", models.NewInternalError(err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "user_" + uuid.NewString()[:8], nil
}

func sanitizeUsername(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_-")
}

func (s *userService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "User", id)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, viewer *Viewer, limit, offset int) ([]*models.User, int64, error) {
	if viewer == nil || !viewer.Admin {
		return nil, 0, models.NewForbiddenError("listing users requires the admin authority")
	}
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

func (s *userService) GetProfileByUsername(ctx context.Context, username string) (*models.SocialProfile, error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOrInternal(err, "Profile", username)
	}
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actorUserID uint, input UpdateProfileInput) (*models.SocialProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, notFoundOrInternal(err, "User", actorUserID)
	}

	if input.Username != nil && *input.Username != profile.Username {
		if err := validation.ValidateUsernameAvailable(*input.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		taken, err := s.profiles.UsernameExists(ctx, *input.Username)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if taken {
			return nil, models.NewValidationError("username is already taken")
		}
		profile.Username = *input.Username
	}
	namesChanged := false
	if input.FirstName != nil {
		profile.FirstName = *input.FirstName
		namesChanged = true
	}
	if input.LastName != nil {
		profile.LastName = *input.LastName
		namesChanged = true
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Links != nil {
		profile.Links = *input.Links
	}
	if namesChanged {
		profile.RefreshAvatarURL()
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, models.NewConflictError("username is already taken")
		}
		return nil, models.NewInternalError(err)
	}
	return profile, nil
}

func (s *userService) SetAvatar(ctx context.Context, actorUserID uint, avatarURL string) (*models.SocialProfile, error) {
	if strings.TrimSpace(avatarURL) == "" {
		return nil, models.NewValidationError("avatar url is required")
	}
	profile, err := s.profiles.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, notFoundOrInternal(err, "User", actorUserID)
	}
	profile.SetCustomAvatar(avatarURL)
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, models.NewInternalError(err)
	}
	return profile, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, actorUserID uint, input UpdatePreferencesInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, actorUserID)
	if err != nil {
		return nil, notFoundOrInternal(err, "User", actorUserID)
	}

	if input.Role != nil {
		if !validRole(*input.Role) {
			return nil, models.NewValidationError(fmt.Sprintf("unknown role %q", *input.Role))
		}
		user.Role = *input.Role
	}
	if input.PreferredLanguage != nil {
		language, err := validation.NormalizeLanguageCode(*input.PreferredLanguage)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.PreferredLanguage = language
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	if input.InterestIDs != nil {
		interests, err := resolveCategorySet(ctx, s.categories, *input.InterestIDs)
		if err != nil {
			return nil, err
		}
		if err := s.users.ReplaceInterests(ctx, user, interests); err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Interests = interests
	}
	return user, nil
}

// Delete removes an account; allowed for the account owner and for admins.
func (s *userService) Delete(ctx context.Context, actorUserID, targetID uint, actorAdmin bool) error {
	if actorUserID != targetID && !actorAdmin {
		return models.NewForbiddenError("only the account owner or an admin can delete an account")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return notFoundOrInternal(err, "User", targetID)
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
