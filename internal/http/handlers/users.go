package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campustech-backend/internal/http/middleware"
	"campustech-backend/internal/http/respond"
	"campustech-backend/internal/models"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.me)
	protected.PUT("/users/me", h.updateMe)
	protected.PUT("/users/admin/:id", h.adminUpdate)
	protected.GET("/users/admin/list", h.adminList)
}

func (h *UserHandler) me(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	user, err := h.users.Me(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, user)
}

func (h *UserHandler) updateMe(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	var req dto.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid JSON payload")
		return
	}
	user, err := h.users.UpdateMe(c.Request.Context(), id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, user)
}

func (h *UserHandler) adminUpdate(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.BadRequest(c, "invalid JSON payload")
		return
	}
	user, err := h.users.AdminUpdate(c.Request.Context(), id, c.Param("id"), patch)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, user)
}

func (h *UserHandler) adminList(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	users, err := h.users.AdminList(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, users)
}
