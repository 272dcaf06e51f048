// Package memory is an in-process Store used by tests and the memory storage driver.
package memory

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/models"
	"campustech-backend/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

type txKey struct{}

// Store keeps every collection in maps guarded by one mutex.
// RunInTx holds the mutex for the whole callback and restores a snapshot if it fails.
type Store struct {
	mu     sync.Mutex
	users  map[primitive.ObjectID]models.User
	items  map[primitive.ObjectID]models.Item
	carts  map[primitive.ObjectID]models.Cart // keyed by user id
	orders map[primitive.ObjectID]models.Order
	now    func() time.Time
}

func New() *Store {
	return &Store{
		users:  make(map[primitive.ObjectID]models.User),
		items:  make(map[primitive.ObjectID]models.Item),
		carts:  make(map[primitive.ObjectID]models.Cart),
		orders: make(map[primitive.ObjectID]models.Order),
		now:    time.Now,
	}
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) Atomic() bool { return true }

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.users, s.items, s.carts, s.orders = snap.users, snap.items, snap.carts, snap.orders
		return err
	}
	return nil
}

// lock acquires the mutex unless ctx is already inside RunInTx.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	users  map[primitive.ObjectID]models.User
	items  map[primitive.ObjectID]models.Item
	carts  map[primitive.ObjectID]models.Cart
	orders map[primitive.ObjectID]models.Order
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		users:  make(map[primitive.ObjectID]models.User, len(s.users)),
		items:  make(map[primitive.ObjectID]models.Item, len(s.items)),
		carts:  make(map[primitive.ObjectID]models.Cart, len(s.carts)),
		orders: make(map[primitive.ObjectID]models.Order, len(s.orders)),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	for k, v := range s.carts {
		snap.carts[k] = cloneCart(v)
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	return snap
}

// ---- users ----

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	defer s.lock(ctx)()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	defer s.lock(ctx)()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	defer s.lock(ctx)()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (models.User, error) {
	defer s.lock(ctx)()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	patch.Apply(&user)
	user.UpdatedAt = s.now()
	s.users[id] = user
	return user, nil
}

func (s *Store) SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error {
	defer s.lock(ctx)()
	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.IsAdmin = isAdmin
	user.UpdatedAt = s.now()
	s.users[id] = user
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	defer s.lock(ctx)()
	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- items ----

func (s *Store) CreateItem(ctx context.Context, item models.Item) (models.Item, error) {
	defer s.lock(ctx)()
	return s.insertItem(item), nil
}

func (s *Store) InsertItems(ctx context.Context, items []models.Item) error {
	defer s.lock(ctx)()
	for _, item := range items {
		s.insertItem(item)
	}
	return nil
}

func (s *Store) insertItem(item models.Item) models.Item {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	now := s.now()
	item.CreatedAt, item.UpdatedAt = now, now
	s.items[item.ID] = item
	return item
}

func (s *Store) CountItems(ctx context.Context) (int64, error) {
	defer s.lock(ctx)()
	return int64(len(s.items)), nil
}

func (s *Store) FindItem(ctx context.Context, id primitive.ObjectID) (models.Item, error) {
	defer s.lock(ctx)()
	item, ok := s.items[id]
	if !ok {
		return models.Item{}, storage.ErrNotFound
	}
	return item, nil
}

func (s *Store) FindItems(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Item, error) {
	defer s.lock(ctx)()
	out := make(map[primitive.ObjectID]models.Item, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (s *Store) ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	defer s.lock(ctx)()
	search := strings.ToLower(filter.Search)
	out := []models.Item{}
	for _, item := range s.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Brand != "" && item.Brand != filter.Brand {
			continue
		}
		if filter.Owner != nil && (item.Owner == nil || *item.Owner != *filter.Owner) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := compareItems(out[i], out[j], filter.SortBy); c != 0 {
			if filter.Desc {
				return c > 0
			}
			return c < 0
		}
		// Ties always break on ascending id, as the Mongo store does.
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out, nil
}

func compareItems(a, b models.Item, by models.ItemSort) int {
	switch by {
	case models.SortByPrice:
		return cmp.Compare(a.Price, b.Price)
	case models.SortByCreated:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

func (s *Store) UpdateItem(ctx context.Context, id primitive.ObjectID, patch models.ItemPatch) (models.Item, error) {
	defer s.lock(ctx)()
	item, ok := s.items[id]
	if !ok {
		return models.Item{}, storage.ErrNotFound
	}
	patch.Apply(&item)
	item.UpdatedAt = s.now()
	s.items[id] = item
	return item, nil
}

func (s *Store) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	defer s.lock(ctx)()
	delete(s.items, id)
	return nil
}

func (s *Store) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	defer s.lock(ctx)()
	item, ok := s.items[id]
	if !ok {
		return storage.ErrNotFound
	}
	if item.Quantity < qty {
		return fmt.Errorf("decrement %s by %d: %w", id.Hex(), qty, storage.ErrInsufficientStock)
	}
	item.Quantity -= qty
	item.UpdatedAt = s.now()
	s.items[id] = item
	return nil
}

func (s *Store) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	defer s.lock(ctx)()
	item, ok := s.items[id]
	if !ok {
		return storage.ErrNotFound
	}
	item.Quantity += qty
	item.UpdatedAt = s.now()
	s.items[id] = item
	return nil
}

// ---- carts ----

func (s *Store) GetOrCreateCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	defer s.lock(ctx)()
	cart, ok := s.carts[userID]
	if !ok {
		now := s.now()
		cart = models.Cart{ID: primitive.NewObjectID(), UserID: userID, Items: []models.CartItem{}, CreatedAt: now, UpdatedAt: now}
		s.carts[userID] = cart
	}
	return cloneCart(cart), nil
}

func (s *Store) ReplaceCartItems(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (models.Cart, error) {
	defer s.lock(ctx)()
	cart, ok := s.carts[userID]
	if !ok {
		now := s.now()
		cart = models.Cart{ID: primitive.NewObjectID(), UserID: userID, CreatedAt: now}
	}
	cart.Items = append([]models.CartItem{}, items...)
	cart.UpdatedAt = s.now()
	s.carts[userID] = cart
	return cloneCart(cart), nil
}

func cloneCart(c models.Cart) models.Cart {
	c.Items = append([]models.CartItem{}, c.Items...)
	return c
}

// ---- orders ----

func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	defer s.lock(ctx)()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	order.Items = append([]models.OrderItem{}, order.Items...)
	s.orders[order.ID] = order
	return order, nil
}

func (s *Store) FindOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	defer s.lock(ctx)()
	order, ok := s.orders[id]
	if !ok {
		return models.Order{}, storage.ErrNotFound
	}
	return order, nil
}

func (s *Store) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	defer s.lock(ctx)()
	out := []models.Order{}
	for _, order := range s.orders {
		if filter.UserID != nil && order.UserID != *filter.UserID {
			continue
		}
		if filter.ItemID != nil && !orderHasItem(order, *filter.ItemID) {
			continue
		}
		if filter.From != nil && order.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && order.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, order)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func orderHasItem(order models.Order, itemID primitive.ObjectID) bool {
	for _, line := range order.Items {
		if line.ItemID == itemID {
			return true
		}
	}
	return false
}
