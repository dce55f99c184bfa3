package database

import (
	"log"

	"github.com/kcgame/taskdraw-api/internal/config"
	"github.com/kcgame/taskdraw-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin ensures a staff account exists when ADMIN_USERNAME/ADMIN_PASSWORD
// are configured. Verification of completions is only possible through a
// staff account, so a fresh deployment needs at least one.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	if err := db.Where("username = ?", cfg.AdminUsername).First(&existing).Error; err == nil {
		if !existing.IsStaff {
			return db.Model(&existing).Update("is_staff", true).Error
		}
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: cfg.AdminUsername,
		Password: string(hashed),
		IsStaff:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("seeded staff account %q", cfg.AdminUsername)
	return nil
}
