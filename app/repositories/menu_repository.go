package repositories

import (
	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
)

// MenuRepository handles database operations for MenuItem and MenuImage.
type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// Transaction runs fn against a transaction-scoped repository. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *MenuRepository) Transaction(fn func(tx *MenuRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&MenuRepository{db: tx})
	})
}

// FindByID loads one menu item with its images.
func (r *MenuRepository) FindByID(id uint) (models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.Preload("Images").First(&item, id).Error
	return item, err
}

// List returns one page of menu items with images, oldest first.
func (r *MenuRepository) List(offset, limit int) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.Preload("Images").
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, err
}

// Count returns the total number of menu items.
func (r *MenuRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.MenuItem{}).Count(&count).Error
	return count, err
}

// CreateItem persists a new menu item row.
func (r *MenuRepository) CreateItem(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

// UpdateItem persists field changes to an existing item.
func (r *MenuRepository) UpdateItem(item *models.MenuItem) error {
	return r.db.Model(&models.MenuItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":        item.Name,
			"price":       item.Price,
			"description": item.Description,
			"quantity":    item.Quantity,
		}).Error
}

// DeleteItem removes a menu item row.
func (r *MenuRepository) DeleteItem(id uint) error {
	return r.db.Unscoped().Delete(&models.MenuItem{}, id).Error
}

// CreateImage persists one image row.
func (r *MenuRepository) CreateImage(img *models.MenuImage) error {
	return r.db.Create(img).Error
}

// FindImage loads one image row belonging to the given menu item.
func (r *MenuRepository) FindImage(id, menuID uint) (models.MenuImage, error) {
	var img models.MenuImage
	err := r.db.Where("id = ? AND menu_id = ?", id, menuID).First(&img).Error
	return img, err
}

// ImagesFor returns all image rows for a menu item.
func (r *MenuRepository) ImagesFor(menuID uint) ([]models.MenuImage, error) {
	var images []models.MenuImage
	err := r.db.Where("menu_id = ?", menuID).Find(&images).Error
	return images, err
}

// DeleteImage removes one image row.
func (r *MenuRepository) DeleteImage(id uint) error {
	return r.db.Unscoped().Delete(&models.MenuImage{}, id).Error
}

// DeleteImagesFor removes every image row of a menu item.
func (r *MenuRepository) DeleteImagesFor(menuID uint) error {
	return r.db.Unscoped().Where("menu_id = ?", menuID).Delete(&models.MenuImage{}).Error
}
