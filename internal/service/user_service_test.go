package service

import (
	"context"
	"testing"

	"ideahub/internal/models"
	"ideahub/internal/repository"
	"ideahub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) UserService {
	return NewUserService(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		repository.NewCategoryRepository(db),
	)
}

const validPassword = "Str0ng!Enough$Pass"

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newUserService(db)

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: validPassword})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Email: "weak@example.com", Password: "short"})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Email:    "role@example.com",
			Password: validPassword,
			Role:     "WIZARD",
		})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("explicit username and defaults", func(t *testing.T) {
		user, err := svc.Register(ctx, RegisterInput{
			Email:     "First.Person@Example.COM",
			Password:  validPassword,
			Username:  "firstperson",
			FirstName: "First",
			LastName:  "Person",
		})
		require.NoError(t, err)
		assert.Equal(t, "first.person@example.com", user.Email, "email is lowercased")
		assert.Equal(t, models.RoleCreator, user.Role, "role defaults to creator")
		assert.Equal(t, "en", user.PreferredLanguage)
		assert.Equal(t, models.UserStatusActive, user.Status)
		require.NotNil(t, user.Profile)
		assert.Equal(t, "firstperson", user.Profile.Username)
		assert.NotEmpty(t, user.Profile.AvatarURL)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(validPassword)))
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Email:    "first.person@example.com",
			Password: validPassword,
		})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("taken username rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Email:    "second@example.com",
			Password: validPassword,
			Username: "firstperson",
		})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("reserved username rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Email:    "imposter@example.com",
			Password: validPassword,
			Username: "admin",
		})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("username derived from email when omitted", func(t *testing.T) {
		user, err := svc.Register(ctx, RegisterInput{
			Email:    "derived.name@example.com",
			Password: validPassword,
		})
		require.NoError(t, err)
		assert.Equal(t, "derivedname", user.Profile.Username)
	})

	t.Run("registration with interests", func(t *testing.T) {
		tech := models.Category{Name: "Technology"}
		require.NoError(t, db.Create(&tech).Error)

		user, err := svc.Register(ctx, RegisterInput{
			Email:       "curious@example.com",
			Password:    validPassword,
			Role:        models.RoleInvestor,
			InterestIDs: []uint{tech.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleInvestor, user.Role)
		require.Len(t, user.Interests, 1)
		assert.Equal(t, tech.ID, user.Interests[0].ID)
	})

	t.Run("preferred language is normalized", func(t *testing.T) {
		user, err := svc.Register(ctx, RegisterInput{
			Email:             "lingua@example.com",
			Password:          validPassword,
			PreferredLanguage: "ES",
		})
		require.NoError(t, err)
		assert.Equal(t, "es", user.PreferredLanguage)
	})
}

func TestListUsersAdminOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newUserService(db)

	testutil.CreateUser(t, db, "listed", models.RoleCreator)
	admin := testutil.CreateAdmin(t, db, "lister")

	_, _, err := svc.List(ctx, nil, 10, 0)
	assert.True(t, models.IsCode(err, "FORBIDDEN"))

	_, _, err = svc.List(ctx, &Viewer{UserID: 1}, 10, 0)
	assert.True(t, models.IsCode(err, "FORBIDDEN"))

	users, total, err := svc.List(ctx, &Viewer{UserID: admin.ID, Admin: true}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newUserService(db)

	user := testutil.CreateUser(t, db, "renameme", models.RoleCreator)
	neighbor := testutil.CreateUser(t, db, "neighbor", models.RoleCreator)

	t.Run("username collision rejected", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
			Username: strptr(neighbor.Profile.Username),
		})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("reserved username rejected", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
			Username: strptr("metrics"),
		})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("same username is a no-op, not a collision", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
			Username: strptr("renameme"),
			Bio:      strptr("still me"),
		})
		assert.NoError(t, err)
	})

	t.Run("name change refreshes the generated avatar", func(t *testing.T) {
		before, err := svc.GetProfileByUsername(ctx, "renameme")
		require.NoError(t, err)

		updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
			FirstName: strptr("Changed"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Changed", updated.FirstName)
		assert.NotEqual(t, before.AvatarURL, updated.AvatarURL)
	})

	t.Run("links are replaced wholesale", func(t *testing.T) {
		links := map[string]string{"site": "https://example.com"}
		updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Links: &links})
		require.NoError(t, err)
		assert.Equal(t, links, map[string]string(updated.Links))
	})
}

func TestSetAvatar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newUserService(db)
	user := testutil.CreateUser(t, db, "avatarist", models.RoleCreator)

	_, err := svc.SetAvatar(ctx, user.ID, "  ")
	assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))

	profile, err := svc.SetAvatar(ctx, user.ID, "https://cdn.example.com/me.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/me.png", profile.AvatarURL)
}

func TestUpdatePreferences(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newUserService(db)
	user := testutil.CreateUser(t, db, "prefuser", models.RoleCreator)

	t.Run("unknown role rejected", func(t *testing.T) {
		bad := models.UserRole("WIZARD")
		_, err := svc.UpdatePreferences(ctx, user.ID, UpdatePreferencesInput{Role: &bad})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("role and language switch", func(t *testing.T) {
		role := models.RoleProfessional
		updated, err := svc.UpdatePreferences(ctx, user.ID, UpdatePreferencesInput{
			Role:              &role,
			PreferredLanguage: strptr("JA"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleProfessional, updated.Role)
		assert.Equal(t, "ja", updated.PreferredLanguage)
	})

	t.Run("interests replaced wholesale", func(t *testing.T) {
		tech := models.Category{Name: "Technology"}
		arts := models.Category{Name: "Arts"}
		require.NoError(t, db.Create(&tech).Error)
		require.NoError(t, db.Create(&arts).Error)

		_, err := svc.UpdatePreferences(ctx, user.ID, UpdatePreferencesInput{
			InterestIDs: &[]uint{tech.ID, arts.ID},
		})
		require.NoError(t, err)

		updated, err := svc.UpdatePreferences(ctx, user.ID, UpdatePreferencesInput{
			InterestIDs: &[]uint{arts.ID},
		})
		require.NoError(t, err)
		require.Len(t, updated.Interests, 1)
		assert.Equal(t, arts.ID, updated.Interests[0].ID)
	})

	t.Run("unknown interest rejected", func(t *testing.T) {
		_, err := svc.UpdatePreferences(ctx, user.ID, UpdatePreferencesInput{
			InterestIDs: &[]uint{9999},
		})
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newUserService(db)

	owner := testutil.CreateUser(t, db, "quitter", models.RoleCreator)
	bystander := testutil.CreateUser(t, db, "innocentuser", models.RoleCreator)
	admin := testutil.CreateAdmin(t, db, "reaper")

	t.Run("strangers cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, bystander.ID, owner.ID, false)
		assert.True(t, models.IsCode(err, "FORBIDDEN"))
	})

	t.Run("owner deletes own account", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, owner.ID, owner.ID, false))
		_, err := svc.Get(ctx, owner.ID)
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})

	t.Run("admins delete anyone", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin.ID, bystander.ID, true))
	})

	t.Run("missing target", func(t *testing.T) {
		err := svc.Delete(ctx, admin.ID, 9999, true)
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})
}
