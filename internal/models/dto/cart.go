package dto

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/models"
)

// CartMutationRequest is the body of add and set. Quantity accepts a number or a numeric string.
type CartMutationRequest struct {
	ItemID   string      `json:"itemId"`
	Quantity json.Number `json:"quantity"`
}

type CartLine struct {
	Item     models.Item `json:"item"`
	Quantity int         `json:"quantity"`
}

// CartView is a cart with every entry resolved to its current item.
type CartView struct {
	ID        primitive.ObjectID `json:"id"`
	UserID    primitive.ObjectID `json:"user"`
	Items     []CartLine         `json:"items"`
	Subtotal  float64            `json:"subtotal"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
