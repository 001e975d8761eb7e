package migrations

import (
	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
	"github.com/andrianfauzi/warungku/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_menu_tables", &CreateMenuTables{})
	migration.Register("20260301000002_create_order_tables", &CreateOrderTables{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: menu + menu_images --------

type CreateMenuTables struct{}

func (m *CreateMenuTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.MenuItem{}, &models.MenuImage{})
}

func (m *CreateMenuTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("menu_images", "menu")
}

// -------- 0003: orders + order_detail --------

type CreateOrderTables struct{}

func (m *CreateOrderTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderLine{})
}

func (m *CreateOrderTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_detail", "orders")
}
