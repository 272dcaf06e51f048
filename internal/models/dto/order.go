package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/models"
)

type PaymentRequest struct {
	CardBrand string `json:"cardBrand"`
	Last4     string `json:"last4"`
	ExpMonth  string `json:"expMonth"`
	ExpYear   string `json:"expYear"`
}

type CheckoutRequest struct {
	Shipping    models.Shipping `json:"shipping"`
	Payment     PaymentRequest  `json:"payment"`
	SaveBilling bool            `json:"saveBilling"`
}

// OrderQuery is the admin order filter. Dates are YYYY-MM-DD or RFC 3339.
type OrderQuery struct {
	User string `form:"user"`
	Item string `form:"item"`
	From string `form:"from"`
	To   string `form:"to"`
}

// OrderLine is a snapshotted line. Item is nil when the catalog entry was deleted since.
type OrderLine struct {
	ItemID          primitive.ObjectID `json:"itemId"`
	Item            *models.Item       `json:"item"`
	Name            string             `json:"name"`
	Quantity        int                `json:"quantity"`
	PriceAtPurchase float64            `json:"priceAtPurchase"`
}

type OrderView struct {
	ID          primitive.ObjectID    `json:"id"`
	UserID      primitive.ObjectID    `json:"user"`
	Items       []OrderLine           `json:"items"`
	TotalAmount float64               `json:"totalAmount"`
	Shipping    models.Shipping       `json:"shipping"`
	Payment     models.PaymentSummary `json:"payment"`
	CreatedAt   time.Time             `json:"createdAt"`
}
