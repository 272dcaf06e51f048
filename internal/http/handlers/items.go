package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"campustech-backend/internal/http/middleware"
	"campustech-backend/internal/http/respond"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/service"
)

// ItemHandler serves the catalog. Create and update accept JSON or multipart
// form data with an optional "image" file.
type ItemHandler struct {
	catalog *service.CatalogService
}

func NewItemHandler(catalog *service.CatalogService) *ItemHandler {
	return &ItemHandler{catalog: catalog}
}

func (h *ItemHandler) Register(public, protected *gin.RouterGroup) {
	public.GET("/items", h.list)
	protected.GET("/items/my", h.mine)
	public.GET("/items/:id", h.get)
	protected.POST("/items", h.create)
	protected.PUT("/items/:id", h.update)
	protected.PUT("/items/:id/inventory", h.adjustInventory)
	protected.DELETE("/items/:id", h.delete)
}

func (h *ItemHandler) list(c *gin.Context) {
	var q dto.ItemQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.BadRequest(c, "invalid query")
		return
	}
	items, err := h.catalog.List(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, items)
}

func (h *ItemHandler) get(c *gin.Context) {
	item, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, item)
}

func (h *ItemHandler) mine(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	items, err := h.catalog.ListMine(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, items)
}

func (h *ItemHandler) create(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	in, closeImage, err := bindItemInput(c)
	if err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	defer closeImage()

	item, err := h.catalog.Create(c.Request.Context(), id, in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, item)
}

func (h *ItemHandler) update(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	in, closeImage, err := bindItemInput(c)
	if err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	defer closeImage()

	item, err := h.catalog.Update(c.Request.Context(), id, c.Param("id"), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, item)
}

func (h *ItemHandler) adjustInventory(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	var req dto.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "quantity must be a non-negative number")
		return
	}
	item, err := h.catalog.AdjustInventory(c.Request.Context(), id, c.Param("id"), req.Quantity)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, item)
}

func (h *ItemHandler) delete(c *gin.Context) {
	id, err := middleware.Identity(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "item deleted"})
}

type itemJSON struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	ImageURL    *string  `json:"imageUrl"`
}

// bindItemInput reads the item fields from a JSON body or a form. The returned
// func closes the uploaded file, if any.
func bindItemInput(c *gin.Context) (dto.ItemInput, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") && c.ContentType() != "application/x-www-form-urlencoded" {
		var body itemJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			return dto.ItemInput{}, noop, errors.New("invalid JSON payload")
		}
		return dto.ItemInput{
			Name:        body.Name,
			Description: body.Description,
			Category:    body.Category,
			Brand:       body.Brand,
			Price:       body.Price,
			Quantity:    body.Quantity,
			ImageURL:    body.ImageURL,
		}, noop, nil
	}

	var in dto.ItemInput
	in.Name = formString(c, "name")
	in.Description = formString(c, "description")
	in.Category = formString(c, "category")
	in.Brand = formString(c, "brand")
	in.ImageURL = formString(c, "imageUrl")
	if v := formString(c, "price"); v != nil {
		price, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
		if err != nil {
			return dto.ItemInput{}, noop, errors.New("price must be a number")
		}
		in.Price = &price
	}
	if v := formString(c, "quantity"); v != nil {
		qty, err := strconv.Atoi(strings.TrimSpace(*v))
		if err != nil {
			return dto.ItemInput{}, noop, errors.New("quantity must be an integer")
		}
		in.Quantity = &qty
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || (err != nil && !strings.HasPrefix(c.ContentType(), "multipart/")) {
		return in, noop, nil
	}
	if err != nil {
		return dto.ItemInput{}, noop, errors.New("invalid image upload")
	}
	file, err := header.Open()
	if err != nil {
		return dto.ItemInput{}, noop, errors.New("invalid image upload")
	}
	in.Image = &dto.Image{Filename: header.Filename, Size: header.Size, Body: file}
	return in, func() { closeQuietly(file) }, nil
}

// formString treats a blank form field as absent.
func formString(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
