package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andrianfauzi/warungku/app/services"
	"github.com/andrianfauzi/warungku/pkg/paginate"
	"github.com/andrianfauzi/warungku/pkg/response"
	"github.com/andrianfauzi/warungku/pkg/upload"
	"github.com/andrianfauzi/warungku/pkg/validate"
)

type MenuController struct {
	service *services.MenuService
}

func NewMenuController(service *services.MenuService) *MenuController {
	return &MenuController{service: service}
}

// menuInput parses the multipart text fields shared by create and update.
func menuInput(r *http.Request) (services.MenuInput, map[string]string) {
	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	quantity, _ := strconv.Atoi(r.FormValue("quantity"))

	in := services.MenuInput{
		Name:        r.FormValue("name"),
		Price:       price,
		Description: r.FormValue("description"),
		Quantity:    quantity,
	}

	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return in, errs
	}
	return in, nil
}

// Create handles POST /master-menu/menu (multipart, images optional 0..5).
func (c *MenuController) Create(w http.ResponseWriter, r *http.Request) {
	files, err := upload.Images(r, "images")
	if err != nil {
		response.FromError(w, err)
		return
	}

	in, errs := menuInput(r)
	if errs != nil {
		response.Format(w, http.StatusBadRequest, false,
			"All fields except images are required",
			nil, response.Extra{"errors": errs})
		return
	}

	item, err := c.service.Create(r.Context(), in, files)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, "Menu item added successfully", item)
}

// List handles GET /master-menu/menu with page/limit pagination.
func (c *MenuController) List(w http.ResponseWriter, r *http.Request) {
	params, err := paginate.Parse(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	page, err := c.service.List(r.Context(), params)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Format(w, http.StatusOK, true, "Menu items fetched successfully",
		page.Items, response.Extra{
			"page":       page.Meta.Page,
			"limit":      page.Meta.Limit,
			"totalItems": page.Meta.TotalItems,
			"totalPages": page.Meta.TotalPages,
		})
}

// Get handles GET /master-menu/menu/{id}.
func (c *MenuController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := menuID(r)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Menu item not found")
		return
	}

	item, err := c.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Menu item fetched successfully", item)
}

// Update handles PUT /master-menu/menu/{id}: field changes, deleteImages[]
// ids, and new uploads in one request.
func (c *MenuController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := menuID(r)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Menu item not found")
		return
	}

	files, err := upload.Images(r, "images")
	if err != nil {
		response.FromError(w, err)
		return
	}

	in, errs := menuInput(r)
	if errs != nil {
		response.Format(w, http.StatusBadRequest, false,
			"All fields except images are required",
			nil, response.Extra{"errors": errs})
		return
	}

	var deleteIDs []uint
	for _, raw := range r.MultipartForm.Value["deleteImages"] {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "deleteImages must contain numeric image ids")
			return
		}
		deleteIDs = append(deleteIDs, uint(n))
	}

	item, err := c.service.Update(r.Context(), id, in, deleteIDs, files)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Menu item updated successfully", item)
}

// Delete handles DELETE /master-menu/menu/{id}.
func (c *MenuController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := menuID(r)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Menu item not found")
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Menu item deleted successfully", nil)
}

func menuID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	return uint(id), err
}
