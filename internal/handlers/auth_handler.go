package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"filevault-backend/internal/dto"
	"filevault-backend/internal/middleware"
	"filevault-backend/internal/services"
	"filevault-backend/utils/response"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingEmail):
			response.Error(w, http.StatusBadRequest, "Missing email")
		case errors.Is(err, services.ErrMissingPassword):
			response.Error(w, http.StatusBadRequest, "Missing password")
		case errors.Is(err, services.ErrUserExists):
			response.Error(w, http.StatusBadRequest, "Already exist")
		default:
			response.Error(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	response.JSON(w, http.StatusCreated, dto.RegisterUserResponse{
		ID:    user.ID.Hex(),
		Email: user.Email,
	})
}

// Connect logs a user in. Credentials travel in the standard basic-auth
// header; the returned token goes into X-Token on subsequent requests.
func (h *AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := h.service.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	response.JSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}

func (h *AuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(middleware.TokenHeader)
	if token == "" {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to logout")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	response.JSON(w, http.StatusOK, dto.MeResponse{
		ID:    user.ID.Hex(),
		Email: user.Email,
	})
}
