package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/novinresanehco/lifeos-backend/internal/http/response"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Locale   string `json:"locale"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apierr.Validation(errors.New("invalid request body")))
		return
	}
	user, err := ah.authService.Register(c.Request.Context(), services.Credentials{
		Username: req.Username,
		Password: req.Password,
	}, req.Email, req.Locale)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Created(c, user)
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req services.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apierr.Validation(errors.New("invalid request body")))
		return
	}
	pair, err := ah.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, pair)
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apierr.Validation(errors.New("invalid request body")))
		return
	}
	pair, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, pair)
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, gin.H{"message": "logged out successfully"})
}
