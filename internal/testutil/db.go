// Package testutil provides shared test fixtures for backend tests.
package testutil

import (
	"fmt"
	"testing"

	"ideahub/internal/database"
	"ideahub/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an isolated in-memory database with the full schema.
// TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey, matching the production connection.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// CreateUser inserts an active user with a profile whose username derives
// from the given name.
func CreateUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Email:             fmt.Sprintf("%s@example.com", name),
		PasswordHash:      "x",
		PreferredLanguage: "en",
		Role:              role,
		Status:            models.UserStatusActive,
		Profile: &models.SocialProfile{
			Username:  name,
			FirstName: name,
			LastName:  "Tester",
		},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

// CreateAdmin inserts an active user holding the ADMIN authority.
func CreateAdmin(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	authority := models.Authority{Name: models.AuthorityAdmin, System: true}
	if err := db.Where("name = ?", models.AuthorityAdmin).
		FirstOrCreate(&authority).Error; err != nil {
		t.Fatalf("ensure admin authority: %v", err)
	}

	user := CreateUser(t, db, name, models.RoleCreator)
	if err := db.Model(user).Association("Authorities").Append(&authority); err != nil {
		t.Fatalf("grant admin authority: %v", err)
	}
	user.Authorities = append(user.Authorities, authority)
	return user
}

// CreatePost inserts an active post of the given type authored by the user's
// profile. Variant payload fields can be adjusted through mutate.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, postType models.PostType, mutate func(*models.Post)) *models.Post {
	t.Helper()

	post := &models.Post{
		Type:            postType,
		Title:           fmt.Sprintf("%s by %s", postType, author.Profile.Username),
		Description:     "fixture",
		Language:        "en",
		AuthorProfileID: author.Profile.ID,
		Visibility:      models.VisibilityActive,
	}
	switch postType {
	case models.PostTypeSurveyChoice:
		post.Options = []string{"A", "B", "C"}
	case models.PostTypeFundraiser:
		post.TargetAmount = 1000
	case models.PostTypeInquiry:
		post.ProfessionalRole = "Engineer"
	}
	if mutate != nil {
		mutate(post)
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	post.AuthorProfile = author.Profile
	return post
}

// CreateThread inserts a thread owned by the user's profile.
func CreateThread(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Thread {
	t.Helper()

	thread := &models.Thread{
		Title:           title,
		AuthorProfileID: author.Profile.ID,
	}
	if err := db.Create(thread).Error; err != nil {
		t.Fatalf("create thread: %v", err)
	}
	return thread
}
