// Package seed provides database seeding utilities for bootstrap,
// development, and testing.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"log"

	"ideahub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed categories.yml
var categoriesYAML []byte

type categoryFile struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"categories"`
}

// SystemCategories upserts the permanent built-in categories. Existing rows
// keep their ID; descriptions are refreshed on every run.
func SystemCategories(db *gorm.DB) error {
	var file categoryFile
	if err := yaml.Unmarshal(categoriesYAML, &file); err != nil {
		return fmt.Errorf("parse built-in categories: %w", err)
	}

	for _, item := range file.Categories {
		category := models.Category{
			Name:           item.Name,
			Description:    item.Description,
			SystemCategory: true,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "system_category", "updated_at"}),
		}).Create(&category).Error
		if err != nil {
			return fmt.Errorf("seed built-in category %s: %w", item.Name, err)
		}
	}

	return nil
}

// Authorities ensures the built-in authorities exist.
func Authorities(db *gorm.DB) error {
	admin := models.Authority{
		Name:        models.AuthorityAdmin,
		Description: "Full access to the moderation surface.",
		System:      true,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&admin).Error
	if err != nil {
		return fmt.Errorf("seed authority %s: %w", admin.Name, err)
	}
	return nil
}

// AdminUser creates the initial administrator account from configuration.
// It is a no-op when the account already exists or no password is configured.
func AdminUser(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		log.Println("admin bootstrap skipped: no admin credentials configured")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var authority models.Authority
		if err := tx.Where("name = ?", models.AuthorityAdmin).First(&authority).Error; err != nil {
			return fmt.Errorf("load admin authority: %w", err)
		}

		user := models.User{
			Email:             email,
			PasswordHash:      string(hash),
			PreferredLanguage: "en",
			Role:              models.RoleCreator,
			Status:            models.UserStatusActive,
			Authorities:       []models.Authority{authority},
			Profile: &models.SocialProfile{
				Username:  "admin",
				FirstName: "Platform",
				LastName:  "Admin",
			},
		}
		user.Profile.RefreshAvatarURL()

		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create admin account: %w", err)
		}
		log.Printf("created admin account %s", email)
		return nil
	})
}

// Bootstrap runs all idempotent startup seeding.
func Bootstrap(db *gorm.DB, adminEmail, adminPassword string) error {
	if err := SystemCategories(db); err != nil {
		return err
	}
	if err := Authorities(db); err != nil {
		return err
	}
	return AdminUser(db, adminEmail, adminPassword)
}
