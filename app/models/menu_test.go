package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/andrianfauzi/warungku/app/models"
)

// fkTestDB opens an in-memory database with foreign key enforcement on, so
// constraint behavior is actually exercised.
func fkTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_fk=1"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.MenuItem{}, &models.MenuImage{}))
	return db
}

func TestMenuImageRowsCascadeWithItem(t *testing.T) {
	db := fkTestDB(t)

	item := models.MenuItem{Name: "Nasi Goreng", Price: 25000, Description: "spesial", Quantity: 10}
	require.NoError(t, db.Create(&item).Error)
	require.NoError(t, db.Create(&models.MenuImage{MenuID: item.ID, ImageURL: "/uploads/menu/a.jpg"}).Error)
	require.NoError(t, db.Create(&models.MenuImage{MenuID: item.ID, ImageURL: "/uploads/menu/b.jpg"}).Error)

	// Removing the parent row must take its image rows with it.
	require.NoError(t, db.Unscoped().Delete(&models.MenuItem{}, item.ID).Error)

	var images int64
	require.NoError(t, db.Model(&models.MenuImage{}).Count(&images).Error)
	assert.Zero(t, images)
}

func TestMenuImageRequiresExistingItem(t *testing.T) {
	db := fkTestDB(t)

	err := db.Create(&models.MenuImage{MenuID: 999, ImageURL: "/uploads/menu/orphan.jpg"}).Error
	assert.Error(t, err, "an image row may not reference a missing menu item")
}
