package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Item struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description" json:"description"`
	Category    string              `bson:"category" json:"category"`
	Brand       string              `bson:"brand" json:"brand"`
	Price       float64             `bson:"price" json:"price"`
	Quantity    int                 `bson:"quantity" json:"quantity"`
	ImageURL    string              `bson:"imageUrl" json:"imageUrl"`
	Owner       *primitive.ObjectID `bson:"owner,omitempty" json:"owner,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ItemPatch is a partial item update. Nil fields are left unchanged.
type ItemPatch struct {
	Name        *string
	Description *string
	Category    *string
	Brand       *string
	Price       *float64
	Quantity    *int
	ImageURL    *string
}

func (p ItemPatch) Apply(it *Item) {
	setString(&it.Name, p.Name)
	setString(&it.Description, p.Description)
	setString(&it.Category, p.Category)
	setString(&it.Brand, p.Brand)
	setString(&it.ImageURL, p.ImageURL)
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
}

// ItemSort names a catalog sort key.
type ItemSort string

const (
	SortByName    ItemSort = "name"
	SortByPrice   ItemSort = "price"
	SortByCreated ItemSort = "createdAt"
)

// ItemFilter selects catalog items. Empty fields do not filter.
type ItemFilter struct {
	Category string
	Brand    string
	Search   string
	Owner    *primitive.ObjectID
	SortBy   ItemSort
	Desc     bool
}
