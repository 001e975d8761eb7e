package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
	"github.com/andrianfauzi/warungku/app/repositories"
	"github.com/andrianfauzi/warungku/pkg/apperr"
	"github.com/andrianfauzi/warungku/pkg/collection"
	"github.com/andrianfauzi/warungku/pkg/logger"
)

// LineInput is one (menu item, quantity) pair in a create-order request.
type LineInput struct {
	MenuID   uint `json:"menu_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gte=1"`
}

// OrderItemView is one aggregated line in an order read.
type OrderItemView struct {
	MenuID   uint    `json:"menu_id"`
	Quantity int     `json:"quantity"`
	MenuName string  `json:"menu_name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
}

// OrderView is the nested shape order reads return.
type OrderView struct {
	ID          uint            `json:"id"`
	OrderNumber string          `json:"order_number"`
	UserID      uint            `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	OrderItems  []OrderItemView `json:"order_items"`
}

// OrderService assembles multi-line orders atomically and reads them back
// joined with menu details.
type OrderService struct {
	repo *repositories.OrderRepository
}

func NewOrderService(repo *repositories.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Create writes the order and all its lines in one transaction: readers
// never observe an order with fewer lines than were requested. A line
// referencing a missing menu item fails the whole order as a validation
// error.
func (s *OrderService) Create(ctx context.Context, userID uint, lines []LineInput) (uint, string, error) {
	if userID == 0 || len(lines) == 0 {
		return 0, "", apperr.New(apperr.Validation, "User ID and menu items are required.")
	}

	order := models.Order{
		OrderNumber: newOrderNumber(),
		UserID:      userID,
	}

	err := s.repo.Transaction(func(tx *repositories.OrderRepository) error {
		menuIDs := collection.Map(lines, func(l LineInput) uint { return l.MenuID })
		count, err := tx.CountMenuItems(menuIDs)
		if err != nil {
			return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
		}
		if count != int64(len(uniqueIDs(menuIDs))) {
			return apperr.New(apperr.Validation, "One or more menu items do not exist.")
		}

		if err := tx.CreateOrder(&order); err != nil {
			return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
		}

		for _, l := range lines {
			line := models.OrderLine{OrderID: order.ID, MenuID: l.MenuID, Quantity: l.Quantity}
			if err := tx.CreateLine(&line); err != nil {
				if isConstraintViolation(err) {
					return apperr.Wrap(apperr.Validation, "One or more menu items do not exist.", err)
				}
				return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, "", err
	}

	logger.WithCtx(ctx).Info("order placed",
		"order_id", order.ID, "order_number", order.OrderNumber, "lines", len(lines))
	return order.ID, order.OrderNumber, nil
}

// List returns every order owned by userID, newest first, with lines
// joined to menu name, price, and a representative image.
func (s *OrderService) List(ctx context.Context, userID uint) ([]OrderView, error) {
	if userID == 0 {
		return nil, apperr.New(apperr.Validation, "User ID is required.")
	}

	orders, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	views, err := s.aggregate(orders)
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Get returns one order by id, filtered by owner. A non-owned order is a
// NotFound identical in shape to a missing one, so order ids are never
// confirmed to non-owners.
func (s *OrderService) Get(ctx context.Context, orderID, userID uint) (OrderView, error) {
	if userID == 0 {
		return OrderView{}, apperr.New(apperr.Validation, "User ID is required.")
	}

	order, err := s.repo.FindOwned(orderID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderView{}, apperr.New(apperr.NotFound, "Order not found.")
	}
	if err != nil {
		return OrderView{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	views, err := s.aggregate([]models.Order{order})
	if err != nil {
		return OrderView{}, err
	}
	return views[0], nil
}

// Delete removes an owned order, lines before the order row.
func (s *OrderService) Delete(ctx context.Context, orderID, userID uint) error {
	if userID == 0 {
		return apperr.New(apperr.Validation, "User ID is required.")
	}

	order, err := s.repo.FindOwned(orderID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.NotFound, "Order not found or not authorized.")
	}
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	err = s.repo.Transaction(func(tx *repositories.OrderRepository) error {
		if err := tx.DeleteLines(order.ID); err != nil {
			return err
		}
		return tx.DeleteOrder(order.ID)
	})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	logger.WithCtx(ctx).Info("order deleted", "order_id", orderID, "user_id", userID)
	return nil
}

// aggregate folds raw orders and their lines into nested views, joining
// each line to its menu item and first image. Missing child collections
// come back empty, never null.
func (s *OrderService) aggregate(orders []models.Order) ([]OrderView, error) {
	var menuIDs []uint
	for _, o := range orders {
		for _, l := range o.Lines {
			menuIDs = append(menuIDs, l.MenuID)
		}
	}

	menus, err := s.repo.MenusByIDs(uniqueIDs(menuIDs))
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}
	byID := make(map[uint]models.MenuItem, len(menus))
	for _, m := range menus {
		byID[m.ID] = m
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		view := OrderView{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			UserID:      o.UserID,
			CreatedAt:   o.CreatedAt,
			OrderItems:  []OrderItemView{},
		}
		for _, l := range o.Lines {
			item := OrderItemView{MenuID: l.MenuID, Quantity: l.Quantity}
			if m, ok := byID[l.MenuID]; ok {
				item.MenuName = m.Name
				item.Price = m.Price
				if first, ok := collection.First(m.Images, func(models.MenuImage) bool { return true }); ok {
					item.Image = first.ImageURL
				}
			}
			view.OrderItems = append(view.OrderItems, item)
		}
		views = append(views, view)
	}
	return views, nil
}

// newOrderNumber builds the human-facing reference: "ORD-" plus 8 random
// uppercase hex chars, independent of the row id.
func newOrderNumber() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return "ORD-" + strings.ToUpper(hex.EncodeToString(b))
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	var out []uint
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// isConstraintViolation matches referential-integrity failures across the
// supported drivers by message, since gorm does not type them uniformly.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key") || strings.Contains(msg, "constraint")
}
