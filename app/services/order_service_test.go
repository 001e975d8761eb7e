package services_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
	"github.com/andrianfauzi/warungku/app/repositories"
	"github.com/andrianfauzi/warungku/app/services"
	"github.com/andrianfauzi/warungku/pkg/apperr"
)

func newOrderService(t *testing.T) (*services.OrderService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return services.NewOrderService(repositories.NewOrderRepository(db)), db
}

func seedMenu(t *testing.T, db *gorm.DB, n int) []models.MenuItem {
	t.Helper()
	items := make([]models.MenuItem, n)
	for i := range items {
		items[i] = models.MenuItem{
			Name:        "Menu",
			Price:       10000,
			Description: "test",
			Quantity:    5,
		}
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return items
}

func TestOrderCreateWritesAllLinesAtomically(t *testing.T) {
	ctx := context.Background()
	svc, db := newOrderService(t)
	menu := seedMenu(t, db, 2)

	orderID, orderNumber, err := svc.Create(ctx, 1, []services.LineInput{
		{MenuID: menu[0].ID, Quantity: 2},
		{MenuID: menu[1].ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.NotZero(t, orderID)
	assert.Regexp(t, regexp.MustCompile(`^ORD-[0-9A-F]{8}$`), orderNumber)

	view, err := svc.Get(ctx, orderID, 1)
	require.NoError(t, err)
	assert.Equal(t, orderNumber, view.OrderNumber)
	require.Len(t, view.OrderItems, 2)
	assert.Equal(t, "Menu", view.OrderItems[0].MenuName)
	assert.Equal(t, 10000.0, view.OrderItems[0].Price)
}

func TestOrderCreateRejectsUnknownMenuItem(t *testing.T) {
	ctx := context.Background()
	svc, db := newOrderService(t)
	menu := seedMenu(t, db, 1)

	_, _, err := svc.Create(ctx, 1, []services.LineInput{
		{MenuID: menu[0].ID, Quantity: 1},
		{MenuID: 999, Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	// Nothing may be visible: neither an order nor stray lines.
	var orders, lines int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
}

func TestOrderCreateValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newOrderService(t)

	_, _, err := svc.Create(ctx, 0, []services.LineInput{{MenuID: 1, Quantity: 1}})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, _, err = svc.Create(ctx, 1, nil)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestOrderOwnershipHidesForeignOrders(t *testing.T) {
	ctx := context.Background()
	svc, db := newOrderService(t)
	menu := seedMenu(t, db, 1)

	orderID, _, err := svc.Create(ctx, 1, []services.LineInput{{MenuID: menu[0].ID, Quantity: 1}})
	require.NoError(t, err)

	// Another user's read must be indistinguishable from a missing id.
	_, errForeign := svc.Get(ctx, orderID, 2)
	_, errMissing := svc.Get(ctx, 4242, 2)
	assert.True(t, apperr.IsKind(errForeign, apperr.NotFound))
	assert.True(t, apperr.IsKind(errMissing, apperr.NotFound))
	assert.Equal(t, errMissing.Error(), errForeign.Error())

	// And a foreign delete must not remove anything.
	err = svc.Delete(ctx, orderID, 2)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	view, err := svc.Get(ctx, orderID, 1)
	require.NoError(t, err)
	assert.Len(t, view.OrderItems, 1)
}

func TestOrderListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, db := newOrderService(t)
	menu := seedMenu(t, db, 1)

	first, _, err := svc.Create(ctx, 7, []services.LineInput{{MenuID: menu[0].ID, Quantity: 1}})
	require.NoError(t, err)
	second, _, err := svc.Create(ctx, 7, []services.LineInput{{MenuID: menu[0].ID, Quantity: 3}})
	require.NoError(t, err)

	views, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, views, 2)

	ids := []uint{views[0].ID, views[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
	for _, v := range views {
		assert.NotNil(t, v.OrderItems)
	}
}

func TestOrderDeleteRemovesLinesBeforeOrder(t *testing.T) {
	ctx := context.Background()
	svc, db := newOrderService(t)
	menu := seedMenu(t, db, 2)

	orderID, _, err := svc.Create(ctx, 1, []services.LineInput{
		{MenuID: menu[0].ID, Quantity: 1},
		{MenuID: menu[1].ID, Quantity: 2},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, orderID, 1))

	var orders, lines int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
}
