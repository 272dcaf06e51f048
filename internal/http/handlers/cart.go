package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"campustech-backend/internal/auth"
	"campustech-backend/internal/http/middleware"
	"campustech-backend/internal/http/respond"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) Register(protected *gin.RouterGroup) {
	protected.GET("/cart", h.get)
	protected.POST("/cart/add", h.mutation(h.carts.AddDelta))
	protected.POST("/cart/set", h.mutation(h.carts.SetQuantity))
}

func (h *CartHandler) get(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	cart, err := h.carts.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, cart)
}

type cartMutation func(context.Context, auth.Identity, dto.CartMutationRequest) (dto.CartView, error)

func (h *CartHandler) mutation(apply cartMutation) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := middleware.Identity(c)
		if err != nil {
			respond.Error(c, err)
			return
		}
		var req dto.CartMutationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "itemId and a numeric quantity are required")
			return
		}
		cart, err := apply(c.Request.Context(), id, req)
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.JSON(c, http.StatusOK, cart)
	}
}
