package repositories

import (
	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
)

// OrderRepository handles database operations for Order and OrderLine.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Transaction runs fn against a transaction-scoped repository.
func (r *OrderRepository) Transaction(fn func(tx *OrderRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&OrderRepository{db: tx})
	})
}

// CreateOrder persists the order row only; lines are written separately so
// the composer controls their ordering inside the transaction.
func (r *OrderRepository) CreateOrder(order *models.Order) error {
	return r.db.Omit("Lines").Create(order).Error
}

// CreateLine persists one order line.
func (r *OrderRepository) CreateLine(line *models.OrderLine) error {
	return r.db.Create(line).Error
}

// CountMenuItems returns how many of the given menu ids exist.
func (r *OrderRepository) CountMenuItems(ids []uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.MenuItem{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// ListByUser returns every order owned by userID with lines, newest first.
func (r *OrderRepository) ListByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Lines").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// FindOwned loads one order with lines, filtered by owner. A non-owned
// order comes back as gorm.ErrRecordNotFound, same as a missing one.
func (r *OrderRepository) FindOwned(id, userID uint) (models.Order, error) {
	var order models.Order
	err := r.db.Preload("Lines").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	return order, err
}

// MenusByIDs loads menu items (with images) keyed by id, for aggregation.
func (r *OrderRepository) MenusByIDs(ids []uint) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	err := r.db.Preload("Images").Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// DeleteLines removes every line of an order.
func (r *OrderRepository) DeleteLines(orderID uint) error {
	return r.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error
}

// DeleteOrder removes the order row.
func (r *OrderRepository) DeleteOrder(id uint) error {
	return r.db.Unscoped().Delete(&models.Order{}, id).Error
}
