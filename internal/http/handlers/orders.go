package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campustech-backend/internal/http/middleware"
	"campustech-backend/internal/http/respond"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/report"
	"campustech-backend/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Register(protected *gin.RouterGroup) {
	protected.POST("/orders/checkout", h.checkout)
	protected.GET("/orders", h.mine)
	protected.GET("/orders/admin/all", h.adminList)
	protected.GET("/orders/admin/export", h.adminExport)
	protected.GET("/orders/:id", h.get)
}

func (h *OrderHandler) checkout(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid JSON payload")
		return
	}
	order, err := h.orders.Checkout(c.Request.Context(), id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, order)
}

func (h *OrderHandler) mine(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	orders, err := h.orders.Mine(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, orders)
}

func (h *OrderHandler) get(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	order, err := h.orders.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, order)
}

func (h *OrderHandler) adminOrders(c *gin.Context) ([]dto.OrderView, bool) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return nil, false
	}
	var q dto.OrderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.BadRequest(c, "invalid query")
		return nil, false
	}
	orders, err := h.orders.AdminList(c.Request.Context(), id, q)
	if err != nil {
		respond.Error(c, err)
		return nil, false
	}
	return orders, true
}

func (h *OrderHandler) adminList(c *gin.Context) {
	if orders, ok := h.adminOrders(c); ok {
		respond.JSON(c, http.StatusOK, orders)
	}
}

func (h *OrderHandler) adminExport(c *gin.Context) {
	orders, ok := h.adminOrders(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", report.ContentType)
	c.Status(http.StatusOK)
	if err := report.WriteOrders(c.Writer, orders); err != nil {
		log.Printf("export orders: %v", err)
	}
}
