package seeders

import (
	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
)

func init() {
	Register("menu", SeedMenu)
}

// SeedMenu inserts a small starter menu. Idempotent: skips when the table
// already has rows.
func SeedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.MenuItem{
		{Name: "Nasi Goreng Spesial", Price: 25000, Description: "Nasi goreng dengan telur, ayam, dan kerupuk", Quantity: 50},
		{Name: "Mie Ayam Bakso", Price: 20000, Description: "Mie ayam dengan bakso sapi", Quantity: 40},
		{Name: "Es Teh Manis", Price: 5000, Description: "Teh manis dingin", Quantity: 100},
		{Name: "Ayam Bakar Madu", Price: 32000, Description: "Ayam bakar dengan olesan madu", Quantity: 25},
	}
	return db.Create(&items).Error
}
