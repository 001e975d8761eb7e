package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andrianfauzi/warungku/app/services"
	"github.com/andrianfauzi/warungku/pkg/bind"
	"github.com/andrianfauzi/warungku/pkg/response"
	"github.com/andrianfauzi/warungku/pkg/validate"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Create handles POST /order.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID    uint                 `json:"user_id"`
		MenuItems []services.LineInput `json:"menu_items"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.UserID == 0 || len(in.MenuItems) == 0 {
		response.Error(w, http.StatusBadRequest, "User ID and menu items are required.")
		return
	}
	for _, line := range in.MenuItems {
		if errs := validate.Struct(&line); validate.HasErrors(errs) {
			response.Format(w, http.StatusBadRequest, false,
				"Each menu item needs a menu_id and a positive quantity.",
				nil, response.Extra{"errors": errs})
			return
		}
	}

	orderID, orderNumber, err := c.service.Create(r.Context(), in.UserID, in.MenuItems)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, "Order placed successfully.", map[string]interface{}{
		"orderId":     orderID,
		"orderNumber": orderNumber,
	})
}

// List handles GET /order?user_id=N.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.List(r.Context(), queryUserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Orders fetched successfully.", orders)
}

// Get handles GET /order/{id}?user_id=N.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Order not found.")
		return
	}

	order, err := c.service.Get(r.Context(), uint(id), queryUserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Order fetched successfully.", order)
}

// Delete handles DELETE /order/{id}?user_id=N.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Order not found.")
		return
	}

	if err := c.service.Delete(r.Context(), uint(id), queryUserID(r)); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Order deleted successfully.", nil)
}

// queryUserID parses user_id from the query string; 0 means absent and is
// rejected by the service.
func queryUserID(r *http.Request) uint {
	n, err := strconv.ParseUint(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
