package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campustech-backend/internal/http/middleware"
	"campustech-backend/internal/http/respond"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/service"
)

// AuthHandler owns register, login, me and logout.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Register attaches auth routes; public routes need no token.
func (h *AuthHandler) Register(public, protected *gin.RouterGroup) {
	public.POST("/auth/register", h.register)
	public.POST("/auth/login", h.login)
	protected.GET("/auth/me", h.me)
	protected.POST("/auth/logout", h.logout)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid JSON payload")
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"message": "user registered", "user": user})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid JSON payload")
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *AuthHandler) me(c *gin.Context) {
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

func (h *AuthHandler) logout(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if err := h.auth.Logout(c.Request.Context(), id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
