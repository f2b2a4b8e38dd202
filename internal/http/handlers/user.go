package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/novinresanehco/lifeos-backend/internal/http/response"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	user, err := uh.userService.Me(c.Request.Context(), userID)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, user)
}

func (uh *UserHandler) UpdateLocale(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	var req struct {
		Locale string `json:"locale"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apierr.Validation(errors.New("invalid request body")))
		return
	}
	user, err := uh.userService.UpdateLocale(c.Request.Context(), userID, req.Locale)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, user)
}

func (uh *UserHandler) GetSettings(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	settings, err := uh.userService.Settings(c.Request.Context(), userID)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, settings)
}

func (uh *UserHandler) UpdateSettings(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Err(c, apierr.Validation(errors.New("invalid request body")))
		return
	}
	settings, err := uh.userService.UpdateSettings(c.Request.Context(), userID, patch)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, settings)
}
