package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"campustech-backend/internal/auth"
	"campustech-backend/internal/config"
	"campustech-backend/internal/models"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/storage/memory"
)

type env struct {
	store   *memory.Store
	cfg     *config.Config
	tokens  *auth.TokenManager
	auth    *AuthService
	users   *UserService
	catalog *CatalogService
	carts   *CartService
	orders  *OrderService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	cfg := &config.Config{
		AdminEmail:   "admin@campus.test",
		DeclineLast4: "0000",
		JWTSecret:    "test-secret",
		JWTTTL:       2 * time.Hour,
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	users := NewUserService(store)
	return &env{
		store:   store,
		cfg:     cfg,
		tokens:  tokens,
		auth:    NewAuthService(store, tokens, nil, cfg),
		users:   users,
		catalog: NewCatalogService(store, nil),
		carts:   NewCartService(store),
		orders:  NewOrderService(store, users, cfg),
	}
}

func (e *env) seedItem(t *testing.T, name string, price float64, qty int) models.Item {
	t.Helper()
	item, err := e.store.CreateItem(context.Background(), models.Item{Name: name, Category: "misc", Price: price, Quantity: qty})
	require.NoError(t, err)
	return item
}

func (e *env) seedUser(t *testing.T, email string) auth.Identity {
	t.Helper()
	user, err := e.store.CreateUser(context.Background(), models.User{Name: "Test", Email: email})
	require.NoError(t, err)
	return auth.Identity{UserID: user.ID, Email: user.Email}
}

func admin(id auth.Identity) auth.Identity {
	id.IsAdmin = true
	return id
}

func validCheckout() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		Shipping: models.Shipping{FullName: "Ada Lovelace", Address: "4700 Keele St", City: "Toronto", PostalCode: "M3J 1P3", Country: "Canada"},
		Payment:  dto.PaymentRequest{CardBrand: "Visa", Last4: "4242", ExpMonth: "12", ExpYear: "2030"},
	}
}

func qty(n string) json.Number { return json.Number(n) }
