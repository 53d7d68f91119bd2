package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/promptdeck/promptdeck-backend/internal/common"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"github.com/promptdeck/promptdeck-backend/internal/middleware"
	"github.com/promptdeck/promptdeck-backend/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.RegisterRequest  true  "registration payload"
// @Success      201  {object}  common.APIResponse{data=domain.User}
// @Failure      400  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	common.CreatedResponse(c, user)
}

// Login godoc
// @Summary      Log in and receive a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.LoginRequest  true  "credentials"
// @Success      200  {object}  common.APIResponse{data=service.LoginResponse}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	common.SuccessResponse(c, resp)
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.RefreshRequest  true  "refresh token"
// @Success      200  {object}  common.APIResponse{data=service.LoginResponse}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	common.SuccessResponse(c, resp)
}

// Me godoc
// @Summary      Get the authenticated account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=domain.User}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, user)
}
