package seeders

import (
	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
	"github.com/andrianfauzi/warungku/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
}

// SeedUsers inserts a demo admin account. Idempotent: skips when the
// username already exists.
func SeedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	admin := models.User{
		Nama:        "Administrator",
		Alamat:      "Jl. Raya Warung 1",
		Email:       "admin@warungku.local",
		Password:    hash,
		PhoneNumber: "080000000001",
		Username:    "admin",
		UserLevel:   1,
	}
	return db.Create(&admin).Error
}
