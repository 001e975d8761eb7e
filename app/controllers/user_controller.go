// Package controllers wires HTTP requests to services: decode and
// validate input, call the service, write the response envelope.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andrianfauzi/warungku/app/services"
	"github.com/andrianfauzi/warungku/pkg/bind"
	"github.com/andrianfauzi/warungku/pkg/response"
	"github.com/andrianfauzi/warungku/pkg/upload"
)

type UserController struct {
	service *services.AuthService
}

func NewUserController(service *services.AuthService) *UserController {
	return &UserController{service: service}
}

// Register handles POST /users/register.
func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.Format(w, http.StatusBadRequest, false,
			"Nama, Email, Password, Phone Number, and Username are required",
			nil, response.Extra{"errors": errs})
		return
	}

	userID, err := c.service.Register(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, "User registered successfully", map[string]interface{}{
		"userId": userID,
	})
}

// Login handles POST /users/login.
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.Error(w, http.StatusBadRequest, "Email and Password are required")
		return
	}

	token, user, err := c.service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Login successful", map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":           user.ID,
			"nama":         user.Nama,
			"email":        user.Email,
			"phone_number": user.PhoneNumber,
			"username":     user.Username,
			"user_level":   user.UserLevel,
		},
	})
}

// UpdateProfile handles PATCH /users/update-profile/{id}. The multipart
// body may carry an alamat field and/or one profile image.
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusNotFound, "User not found")
		return
	}

	files, err := upload.Images(r, "image")
	if err != nil {
		response.FromError(w, err)
		return
	}
	if len(files) > 1 {
		response.Error(w, http.StatusBadRequest, "Only one profile image is allowed.")
		return
	}

	var alamat *string
	if values, ok := r.MultipartForm.Value["alamat"]; ok && len(values) > 0 {
		alamat = &values[0]
	}
	if alamat == nil && len(files) == 0 {
		response.Error(w, http.StatusBadRequest, "Nothing to update.")
		return
	}

	var image *upload.File
	if len(files) == 1 {
		image = &files[0]
	}

	user, err := c.service.UpdateProfile(r.Context(), uint(id), alamat, image)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Profile updated successfully", user)
}
