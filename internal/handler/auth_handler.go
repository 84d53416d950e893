package handler

import (
	"net/http"

	"contractor_connect/internal/model"
	"contractor_connect/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login sends a login code; the password flow lives at /login-password
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.PhoneInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.service.RequestLoginOTP(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(c, err, "Failed to send login code")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req model.VerifyOTPInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.service.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTPCode)
	if err != nil {
		respondError(c, err, "Failed to verify code")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req model.PhoneInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.service.ResendOTP(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(c, err, "Failed to resend code")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) LoginWithPassword(c *gin.Context) {
	var req model.PasswordLoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.service.LoginWithPassword(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		respondError(c, err, "Failed to login")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "Failed to refresh token")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout is stateless: tokens simply expire, the client drops its copy
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Successfully logged out"})
}

// RegisterAuthRoutes registers auth routes. limiter guards every endpoint
// that can trigger an SMS or a password check.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, limiter gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	if limiter != nil {
		authGroup.Use(limiter)
	}
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/verify-otp", h.VerifyOTP)
		authGroup.POST("/resend-otp", h.ResendOTP)
		authGroup.POST("/login-password", h.LoginWithPassword)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
	}
}
