package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/auth"
	"campustech-backend/internal/config"
	"campustech-backend/internal/models"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/storage"
)

// deletedItemName labels order lines whose catalog item no longer exists.
const deletedItemName = "Item"

// OrderService turns carts into orders and reads order history.
type OrderService struct {
	store        storage.Store
	users        *UserService
	declineLast4 string
	now          func() time.Time
}

func NewOrderService(store storage.Store, users *UserService, cfg *config.Config) *OrderService {
	return &OrderService{
		store:        store,
		users:        users,
		declineLast4: cfg.DeclineLast4,
		now:          time.Now,
	}
}

type appliedDecrement struct {
	itemID primitive.ObjectID
	qty    int
}

// Checkout validates every cart line against current stock before touching any of it,
// then decrements stock, writes the order and empties the cart in one transaction.
func (s *OrderService) Checkout(ctx context.Context, id auth.Identity, req dto.CheckoutRequest) (dto.OrderView, error) {
	if err := validateShipping(req.Shipping); err != nil {
		return dto.OrderView{}, err
	}
	if strings.TrimSpace(req.Payment.CardBrand) == "" || strings.TrimSpace(req.Payment.Last4) == "" {
		return dto.OrderView{}, apperr.Validation("payment card brand and last4 are required")
	}
	last4, err := validLast4(req.Payment.Last4)
	if err != nil {
		return dto.OrderView{}, err
	}
	req.Payment.Last4 = last4
	if s.declineLast4 != "" && last4 == s.declineLast4 {
		return dto.OrderView{}, apperr.PaymentDeclined()
	}

	var order models.Order
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		cart, err := s.store.GetOrCreateCart(ctx, id.UserID)
		if err != nil {
			return apperr.Internal(err)
		}
		if len(cart.Items) == 0 {
			return apperr.Validation("cart is empty")
		}

		// Validate every line before mutating anything.
		items := make(map[primitive.ObjectID]models.Item, len(cart.Items))
		for _, entry := range cart.Items {
			item, err := s.store.FindItem(ctx, entry.ItemID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return apperr.NotFound("item %s no longer exists", entry.ItemID.Hex())
				}
				return apperr.Internal(err)
			}
			if item.Quantity < entry.Quantity {
				return apperr.InsufficientInventory(item.ID.Hex(), item.Name)
			}
			items[item.ID] = item
		}

		var applied []appliedDecrement
		cartCleared := false
		fail := func(err error) error {
			if !s.store.Atomic() {
				s.compensate(ctx, applied)
				if cartCleared {
					s.restoreCart(ctx, id.UserID, cart.Items)
				}
			}
			return err
		}

		lines := make([]models.OrderItem, 0, len(cart.Items))
		total := decimal.Zero
		for _, entry := range cart.Items {
			item := items[entry.ItemID]
			if err := s.store.DecrementStock(ctx, item.ID, entry.Quantity); err != nil {
				if errors.Is(err, storage.ErrInsufficientStock) || errors.Is(err, storage.ErrNotFound) {
					return fail(apperr.InsufficientInventory(item.ID.Hex(), item.Name))
				}
				return fail(apperr.Internal(err))
			}
			applied = append(applied, appliedDecrement{itemID: item.ID, qty: entry.Quantity})
			lines = append(lines, models.OrderItem{ItemID: item.ID, Quantity: entry.Quantity, PriceAtPurchase: item.Price})
			total = total.Add(lineTotal(item.Price, entry.Quantity))
		}

		// The cart is emptied before the order is written so a failure never leaves
		// an order behind whose stock was restored.
		if _, err := s.store.ReplaceCartItems(ctx, id.UserID, []models.CartItem{}); err != nil {
			return fail(apperr.Internal(err))
		}
		cartCleared = true

		order, err = s.store.CreateOrder(ctx, models.Order{
			UserID:      id.UserID,
			Items:       lines,
			TotalAmount: total.InexactFloat64(),
			Shipping:    trimShipping(req.Shipping),
			Payment: models.PaymentSummary{
				CardBrand: strings.TrimSpace(req.Payment.CardBrand),
				Last4:     last4,
			},
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			return fail(apperr.Internal(err))
		}
		return nil
	})
	if err != nil {
		return dto.OrderView{}, err
	}
	log.Printf("orders: user %s placed order %s total %.2f", id.UserID.Hex(), order.ID.Hex(), order.TotalAmount)

	if req.SaveBilling && s.users != nil {
		if err := s.users.saveBilling(ctx, id.UserID, req.Payment); err != nil {
			log.Printf("orders: save billing for %s: %v", id.UserID.Hex(), err)
		}
	}

	views, err := s.views(ctx, []models.Order{order})
	if err != nil {
		return dto.OrderView{}, err
	}
	return views[0], nil
}

// compensate restores decrements applied before a failure on stores without transactions.
func (s *OrderService) compensate(ctx context.Context, applied []appliedDecrement) {
	for _, d := range applied {
		if err := s.store.IncrementStock(ctx, d.itemID, d.qty); err != nil {
			log.Printf("orders: restore stock for %s (+%d): %v", d.itemID.Hex(), d.qty, err)
		}
	}
}

func (s *OrderService) restoreCart(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) {
	if _, err := s.store.ReplaceCartItems(ctx, userID, items); err != nil {
		log.Printf("orders: restore cart for %s: %v", userID.Hex(), err)
	}
}

// Mine lists the caller's orders, newest first.
func (s *OrderService) Mine(ctx context.Context, id auth.Identity) ([]dto.OrderView, error) {
	userID := id.UserID
	return s.list(ctx, models.OrderFilter{UserID: &userID})
}

// Get returns one order to its owner or to an admin.
func (s *OrderService) Get(ctx context.Context, id auth.Identity, rawID string) (dto.OrderView, error) {
	orderID, err := parseID(rawID, "order")
	if err != nil {
		return dto.OrderView{}, err
	}
	order, err := s.store.FindOrder(ctx, orderID)
	if err != nil {
		return dto.OrderView{}, storeErr(err, "order")
	}
	if order.UserID != id.UserID && !id.IsAdmin {
		return dto.OrderView{}, apperr.Forbidden("not your order")
	}
	views, err := s.views(ctx, []models.Order{order})
	if err != nil {
		return dto.OrderView{}, err
	}
	return views[0], nil
}

// AdminList lists every order matching the optional user, item and date filters.
func (s *OrderService) AdminList(ctx context.Context, id auth.Identity, q dto.OrderQuery) ([]dto.OrderView, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	filter, err := orderFilter(q)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

func (s *OrderService) list(ctx context.Context, filter models.OrderFilter) ([]dto.OrderView, error) {
	orders, err := s.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.views(ctx, orders)
}

// views resolves order lines to the current catalog items in one lookup.
func (s *OrderService) views(ctx context.Context, orders []models.Order) ([]dto.OrderView, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, o := range orders {
		for _, line := range o.Items {
			if _, ok := seen[line.ItemID]; !ok {
				seen[line.ItemID] = struct{}{}
				ids = append(ids, line.ItemID)
			}
		}
	}
	found, err := s.store.FindItems(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	out := make([]dto.OrderView, 0, len(orders))
	for _, o := range orders {
		view := dto.OrderView{
			ID:          o.ID,
			UserID:      o.UserID,
			Items:       make([]dto.OrderLine, 0, len(o.Items)),
			TotalAmount: o.TotalAmount,
			Shipping:    o.Shipping,
			Payment:     o.Payment,
			CreatedAt:   o.CreatedAt,
		}
		for _, line := range o.Items {
			ol := dto.OrderLine{
				ItemID:          line.ItemID,
				Name:            deletedItemName,
				Quantity:        line.Quantity,
				PriceAtPurchase: line.PriceAtPurchase,
			}
			if item, ok := found[line.ItemID]; ok {
				item := item
				ol.Item = &item
				ol.Name = item.Name
			}
			view.Items = append(view.Items, ol)
		}
		out = append(out, view)
	}
	return out, nil
}

func orderFilter(q dto.OrderQuery) (models.OrderFilter, error) {
	var filter models.OrderFilter
	if v := strings.TrimSpace(q.User); v != "" {
		oid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return filter, apperr.Validation("invalid user id")
		}
		filter.UserID = &oid
	}
	if v := strings.TrimSpace(q.Item); v != "" {
		oid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return filter, apperr.Validation("invalid item id")
		}
		filter.ItemID = &oid
	}
	if v := strings.TrimSpace(q.From); v != "" {
		from, _, err := parseDate(v)
		if err != nil {
			return filter, apperr.Validation("invalid from date")
		}
		filter.From = &from
	}
	if v := strings.TrimSpace(q.To); v != "" {
		to, dateOnly, err := parseDate(v)
		if err != nil {
			return filter, apperr.Validation("invalid to date")
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, apperr.Validation("to date is before from date")
	}
	return filter, nil
}

// parseDate accepts YYYY-MM-DD (reported as dateOnly) or RFC 3339.
func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}

func validateShipping(sh models.Shipping) error {
	for _, v := range []string{sh.FullName, sh.Address, sh.City, sh.PostalCode, sh.Country} {
		if strings.TrimSpace(v) == "" {
			return apperr.Validation("shipping fullName, address, city, postalCode and country are required")
		}
	}
	return nil
}

func trimShipping(sh models.Shipping) models.Shipping {
	return models.Shipping{
		FullName:   strings.TrimSpace(sh.FullName),
		Address:    strings.TrimSpace(sh.Address),
		City:       strings.TrimSpace(sh.City),
		PostalCode: strings.TrimSpace(sh.PostalCode),
		Country:    strings.TrimSpace(sh.Country),
	}
}
