package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderItem struct {
	ItemID          primitive.ObjectID `bson:"item" json:"item"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	PriceAtPurchase float64            `bson:"priceAtPurchase" json:"priceAtPurchase"`
}

type Shipping struct {
	FullName   string `bson:"fullName" json:"fullName"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// PaymentSummary is the brand and last four digits of the card used.
type PaymentSummary struct {
	CardBrand string `bson:"cardBrand" json:"cardBrand"`
	Last4     string `bson:"last4" json:"last4"`
}

// Order is written once at checkout and never modified.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user" json:"user"`
	Items       []OrderItem        `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Shipping    Shipping           `bson:"shipping" json:"shipping"`
	Payment     PaymentSummary     `bson:"payment" json:"payment"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// OrderFilter narrows an order listing. Nil fields do not filter.
type OrderFilter struct {
	UserID *primitive.ObjectID
	ItemID *primitive.ObjectID
	From   *time.Time
	To     *time.Time
}
