package handlers

import (
	"srs-backend/helper"
	"srs-backend/models"
	"srs-backend/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	httpHelper  *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, httpHelper *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{authService: authService, httpHelper: httpHelper}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendCreated(c, "User registered successfully", resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Login successful", resp)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Profile retrieved", user)
}
