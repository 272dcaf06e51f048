package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/auth"
	"campustech-backend/internal/models"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/storage"
)

// CartService keeps one cart per user. Stored entries always have a positive quantity
// and there is at most one entry per item.
type CartService struct {
	store storage.Store
}

func NewCartService(store storage.Store) *CartService {
	return &CartService{store: store}
}

// Get returns the caller's cart, creating it on first access and dropping entries
// whose item has been deleted.
func (s *CartService) Get(ctx context.Context, id auth.Identity) (dto.CartView, error) {
	var view dto.CartView
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		cart, err := s.store.GetOrCreateCart(ctx, id.UserID)
		if err != nil {
			return apperr.Internal(err)
		}
		view, err = s.resolve(ctx, cart, false)
		return err
	})
	return view, err
}

// AddDelta adds a signed delta to the item's quantity. A result of zero or less removes the entry.
func (s *CartService) AddDelta(ctx context.Context, id auth.Identity, req dto.CartMutationRequest) (dto.CartView, error) {
	delta, err := parseQuantity(req.Quantity)
	if err != nil {
		return dto.CartView{}, err
	}
	if delta == 0 {
		return dto.CartView{}, apperr.Validation("quantity must be a non-zero integer")
	}
	return s.mutate(ctx, id, req.ItemID, func(cart *models.Cart, itemID primitive.ObjectID) error {
		idx := cart.Find(itemID)
		if idx < 0 {
			if delta <= 0 {
				return apperr.Validation("cannot add new item with negative quantity")
			}
			cart.Items = append(cart.Items, models.CartItem{ItemID: itemID, Quantity: delta})
			return nil
		}
		current := cart.Items[idx].Quantity
		if delta > 0 && current > math.MaxInt-delta {
			return apperr.Validation("quantity is too large")
		}
		next := current + delta
		if next <= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			return nil
		}
		cart.Items[idx].Quantity = next
		return nil
	})
}

// SetQuantity sets an absolute quantity. Zero removes the entry; zero on an absent entry does nothing.
func (s *CartService) SetQuantity(ctx context.Context, id auth.Identity, req dto.CartMutationRequest) (dto.CartView, error) {
	qty, err := parseQuantity(req.Quantity)
	if err != nil {
		return dto.CartView{}, err
	}
	if qty < 0 {
		return dto.CartView{}, apperr.Validation("quantity must not be negative")
	}
	return s.mutate(ctx, id, req.ItemID, func(cart *models.Cart, itemID primitive.ObjectID) error {
		idx := cart.Find(itemID)
		switch {
		case idx < 0 && qty > 0:
			cart.Items = append(cart.Items, models.CartItem{ItemID: itemID, Quantity: qty})
		case idx >= 0 && qty == 0:
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		case idx >= 0:
			cart.Items[idx].Quantity = qty
		}
		return nil
	})
}

func (s *CartService) mutate(ctx context.Context, id auth.Identity, rawItemID string, apply func(*models.Cart, primitive.ObjectID) error) (dto.CartView, error) {
	if strings.TrimSpace(rawItemID) == "" {
		return dto.CartView{}, apperr.Validation("itemId is required")
	}
	itemID, err := parseID(rawItemID, "item")
	if err != nil {
		return dto.CartView{}, err
	}

	var view dto.CartView
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.FindItem(ctx, itemID); err != nil {
			return storeErr(err, "item")
		}
		cart, err := s.store.GetOrCreateCart(ctx, id.UserID)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := apply(&cart, itemID); err != nil {
			return err
		}
		view, err = s.resolve(ctx, cart, true)
		return err
	})
	return view, err
}

// resolve populates every entry with its current item, persisting the cart when
// entries were pruned or the caller changed it.
func (s *CartService) resolve(ctx context.Context, cart models.Cart, dirty bool) (dto.CartView, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, entry := range cart.Items {
		ids = append(ids, entry.ItemID)
	}
	found, err := s.store.FindItems(ctx, ids)
	if err != nil {
		return dto.CartView{}, apperr.Internal(err)
	}

	kept := make([]models.CartItem, 0, len(cart.Items))
	lines := make([]dto.CartLine, 0, len(cart.Items))
	subtotal := decimal.Zero
	for _, entry := range cart.Items {
		item, ok := found[entry.ItemID]
		if !ok || entry.Quantity <= 0 {
			dirty = true
			continue
		}
		kept = append(kept, entry)
		lines = append(lines, dto.CartLine{Item: item, Quantity: entry.Quantity})
		subtotal = subtotal.Add(lineTotal(item.Price, entry.Quantity))
	}

	if dirty {
		cart, err = s.store.ReplaceCartItems(ctx, cart.UserID, kept)
		if err != nil {
			return dto.CartView{}, apperr.Internal(err)
		}
	}
	return dto.CartView{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     lines,
		Subtotal:  subtotal.InexactFloat64(),
		UpdatedAt: cart.UpdatedAt,
	}, nil
}

// parseQuantity accepts only whole numbers.
func parseQuantity(n json.Number) (int, error) {
	raw := strings.TrimSpace(string(n))
	if raw == "" {
		return 0, apperr.Validation("quantity is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("quantity must be an integer")
	}
	return v, nil
}

func lineTotal(price float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
}
