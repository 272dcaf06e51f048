package dto

import (
	"io"

	"campustech-backend/internal/models"
)

// ItemQuery carries the catalog list query string.
// Sort is the short form (priceAsc, priceDesc, nameAsc, nameDesc); SortBy/SortOrder the long form.
type ItemQuery struct {
	Category  string `form:"category"`
	Brand     string `form:"brand"`
	Search    string `form:"search"`
	Sort      string `form:"sort"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// Image is an uploaded file not yet validated or stored.
type Image struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// ItemInput is used for both create and partial update; nil means "not supplied".
type ItemInput struct {
	Name        *string
	Description *string
	Category    *string
	Brand       *string
	Price       *float64
	Quantity    *int
	ImageURL    *string
	Image       *Image
}

// Patch converts the supplied fields into a store update.
func (in ItemInput) Patch() models.ItemPatch {
	return models.ItemPatch{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Brand:       in.Brand,
		Price:       in.Price,
		Quantity:    in.Quantity,
		ImageURL:    in.ImageURL,
	}
}

type InventoryRequest struct {
	Quantity *int `json:"quantity"`
}
