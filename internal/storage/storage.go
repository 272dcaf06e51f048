package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInsufficientStock is returned by a guarded decrement when stock is lower than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (models.User, error)
	SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error
	// ListUsers returns every user, newest first.
	ListUsers(ctx context.Context) ([]models.User, error)
}

type ItemStore interface {
	CreateItem(ctx context.Context, item models.Item) (models.Item, error)
	InsertItems(ctx context.Context, items []models.Item) error
	CountItems(ctx context.Context) (int64, error)
	FindItem(ctx context.Context, id primitive.ObjectID) (models.Item, error)
	// FindItems returns the subset of ids that exist, keyed by id.
	FindItems(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Item, error)
	ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	UpdateItem(ctx context.Context, id primitive.ObjectID, patch models.ItemPatch) (models.Item, error)
	// DeleteItem is idempotent: deleting an absent item is not an error.
	DeleteItem(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock subtracts qty only if at least qty is on hand, else ErrInsufficientStock.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type CartStore interface {
	// GetOrCreateCart atomically returns the user's cart, creating an empty one if needed.
	GetOrCreateCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	ReplaceCartItems(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (models.Cart, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	FindOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	// ListOrders returns matching orders, newest first.
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
}

// TxRunner runs fn so that its store calls commit or roll back together.
// Stores that cannot provide this report Atomic() == false and run fn directly.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	Atomic() bool
}

// Store is the full persistence boundary used by the services.
type Store interface {
	UserStore
	ItemStore
	CartStore
	OrderStore
	TxRunner
	Close(ctx context.Context) error
}
