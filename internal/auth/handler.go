// backend/internal/auth/handler.go
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"elearn-quiz/internal/models"
	"elearn-quiz/internal/respond"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=instructor student"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Username and password are required", nil)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		respond.JSON(w, http.StatusUnauthorized, false, "Invalid credentials", nil)
		return
	}
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "Logged in", map[string]string{"token": token})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, err.Error(), nil)
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	}

	if err := h.service.Register(r.Context(), user); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, true, "Registration successful", user)
}
