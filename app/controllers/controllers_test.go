package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/andrianfauzi/warungku/app/controllers"
	"github.com/andrianfauzi/warungku/app/models"
	"github.com/andrianfauzi/warungku/app/repositories"
	"github.com/andrianfauzi/warungku/app/services"
	"github.com/andrianfauzi/warungku/pkg/router"
	"github.com/andrianfauzi/warungku/pkg/storage"
	"github.com/andrianfauzi/warungku/pkg/testkit"
)

func newHandler(t *testing.T) (http.Handler, *gorm.DB, *storage.MemDisk) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.MenuItem{}, &models.MenuImage{},
		&models.Order{}, &models.OrderLine{},
	))

	disk := storage.NewMemDisk()
	menuController := controllers.NewMenuController(
		services.NewMenuService(repositories.NewMenuRepository(db), disk))
	orderController := controllers.NewOrderController(
		services.NewOrderService(repositories.NewOrderRepository(db)))

	r := router.New()
	r.Post("/master-menu/menu", "", menuController.Create)
	r.Get("/master-menu/menu", "", menuController.List)
	r.Get("/master-menu/menu/{id}", "", menuController.Get)
	r.Delete("/master-menu/menu/{id}", "", menuController.Delete)
	r.Post("/order", "", orderController.Create)
	r.Get("/order/{id}", "", orderController.Get)

	return r.Handler(), db, disk
}

func seedMenuRows(t *testing.T, db *gorm.DB, n int) []models.MenuItem {
	t.Helper()
	items := make([]models.MenuItem, n)
	for i := range items {
		items[i] = models.MenuItem{
			Name:        fmt.Sprintf("Menu %02d", i+1),
			Price:       10000,
			Description: "test",
			Quantity:    5,
		}
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return items
}

func TestMenuListEnvelopeAndPagination(t *testing.T) {
	handler, db, _ := newHandler(t)
	seedMenuRows(t, db, 25)

	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/master-menu/menu?page=2&limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	env := testkit.DecodeEnvelope(t, rec.Body)
	assert.True(t, env.Success)
	assert.Equal(t, "Menu items fetched successfully", env.Message)

	var items []models.MenuItem
	testkit.DecodeData(t, env, &items)
	assert.Len(t, items, 10)

	// Pagination metadata is flattened into the envelope.
	assert.EqualValues(t, 2, env.Rest["page"])
	assert.EqualValues(t, 10, env.Rest["limit"])
	assert.EqualValues(t, 25, env.Rest["totalItems"])
	assert.EqualValues(t, 3, env.Rest["totalPages"])
}

func TestMenuListRejectsNonPositivePagination(t *testing.T) {
	handler, _, _ := newHandler(t)

	for _, target := range []string{
		"/master-menu/menu?page=0",
		"/master-menu/menu?limit=0",
		"/master-menu/menu?page=abc",
	} {
		rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, target, nil))
		env := testkit.DecodeEnvelope(t, rec.Body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.False(t, env.Success)
		assert.Equal(t, "Page and limit must be positive numbers", env.Message)
	}
}

func TestMenuCreateMultipartWithImages(t *testing.T) {
	handler, _, disk := newHandler(t)

	req := testkit.MultipartRequest(t, http.MethodPost, "/master-menu/menu", "images",
		map[string]string{
			"name":        "Sate Ayam",
			"price":       "18000",
			"description": "Sate ayam bumbu kacang",
			"quantity":    "12",
		},
		map[string][]byte{
			// Real PNG magic bytes so content sniffing passes.
			"a.png": {0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0},
			"b.png": {0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 1},
		})

	rec := testkit.Do(handler, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := testkit.DecodeEnvelope(t, rec.Body)
	var item models.MenuItem
	testkit.DecodeData(t, env, &item)
	assert.Len(t, item.Images, 2)

	stored, err := disk.AllFiles(context.Background(), "menu")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestMenuCreateValidation(t *testing.T) {
	handler, _, _ := newHandler(t)

	req := testkit.MultipartRequest(t, http.MethodPost, "/master-menu/menu", "images",
		map[string]string{"name": "Sate"}, nil)
	rec := testkit.Do(handler, req)

	env := testkit.DecodeEnvelope(t, rec.Body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Rest, "errors")
}

func TestMenuGetUnknownID(t *testing.T) {
	handler, _, _ := newHandler(t)

	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet, "/master-menu/menu/999", nil))
	env := testkit.DecodeEnvelope(t, rec.Body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Menu item not found", env.Message)
}

func TestOrderCreateAndRead(t *testing.T) {
	handler, db, _ := newHandler(t)
	menu := seedMenuRows(t, db, 2)

	body := map[string]interface{}{
		"user_id": 1,
		"menu_items": []map[string]interface{}{
			{"menu_id": menu[0].ID, "quantity": 2},
			{"menu_id": menu[1].ID, "quantity": 1},
		},
	}
	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodPost, "/order", body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := testkit.DecodeEnvelope(t, rec.Body)
	assert.Equal(t, "Order placed successfully.", env.Message)

	var created struct {
		OrderID     uint   `json:"orderId"`
		OrderNumber string `json:"orderNumber"`
	}
	testkit.DecodeData(t, env, &created)
	require.NotZero(t, created.OrderID)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet,
		fmt.Sprintf("/order/%d?user_id=1", created.OrderID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	env = testkit.DecodeEnvelope(t, rec.Body)
	var view struct {
		OrderNumber string            `json:"order_number"`
		OrderItems  []json.RawMessage `json:"order_items"`
	}
	testkit.DecodeData(t, env, &view)
	assert.Equal(t, created.OrderNumber, view.OrderNumber)
	assert.Len(t, view.OrderItems, 2)
}

func TestOrderCreateRequiresUserAndItems(t *testing.T) {
	handler, _, _ := newHandler(t)

	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodPost, "/order",
		map[string]interface{}{"menu_items": []interface{}{}}))
	env := testkit.DecodeEnvelope(t, rec.Body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID and menu items are required.", env.Message)
}

func TestOrderGetForeignUserLooksMissing(t *testing.T) {
	handler, db, _ := newHandler(t)
	menu := seedMenuRows(t, db, 1)

	body := map[string]interface{}{
		"user_id":    1,
		"menu_items": []map[string]interface{}{{"menu_id": menu[0].ID, "quantity": 1}},
	}
	rec := testkit.Do(handler, testkit.JSONRequest(t, http.MethodPost, "/order", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	env := testkit.DecodeEnvelope(t, rec.Body)
	var created struct {
		OrderID uint `json:"orderId"`
	}
	testkit.DecodeData(t, env, &created)

	rec = testkit.Do(handler, testkit.JSONRequest(t, http.MethodGet,
		fmt.Sprintf("/order/%d?user_id=2", created.OrderID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
