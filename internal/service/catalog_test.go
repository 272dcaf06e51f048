package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/upload"
)

type stubImages struct {
	url   string
	err   error
	calls int
}

func (s *stubImages) Save(context.Context, dto.Image) (string, error) {
	s.calls++
	return s.url, s.err
}

func str(v string) *string { return &v }

func num(v float64) *float64 { return &v }

func count(v int) *int { return &v }

func TestCatalogCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	images := &stubImages{url: "/uploads/abc-pen.png"}
	e.catalog = NewCatalogService(e.store, images)
	user := e.seedUser(t, "a@campus.test")

	img := &dto.Image{Filename: "pen.png", Body: bytes.NewReader([]byte("x"))}
	item, err := e.catalog.Create(ctx, user, dto.ItemInput{Name: str("Pen"), Category: str("office"), Price: num(2.5), Quantity: count(4), Image: img})
	require.NoError(t, err)
	require.NotNil(t, item.Owner)
	assert.Equal(t, user.UserID, *item.Owner)
	assert.Equal(t, "/uploads/abc-pen.png", item.ImageURL)

	_, err = e.catalog.Create(ctx, user, dto.ItemInput{Name: str("Pen"), Price: num(1), Image: img})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = e.catalog.Create(ctx, user, dto.ItemInput{Name: str("Pen"), Category: str("office"), Price: num(-1)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, 1, images.calls, "invalid input must not store an image")

	images.err = upload.ErrUnsupportedType
	_, err = e.catalog.Create(ctx, user, dto.ItemInput{Name: str("Pen"), Category: str("office"), Price: num(1), Image: img})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	mine, err := e.catalog.ListMine(ctx, user)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestCatalogAdminOperations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.seedUser(t, "a@campus.test")
	item := e.seedItem(t, "Pen", 2, 10)

	_, err := e.catalog.Update(ctx, user, item.ID.Hex(), dto.ItemInput{Price: num(3)})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.True(t, apperr.Is(e.catalog.Delete(ctx, user, item.ID.Hex()), apperr.KindForbidden))
	_, err = e.catalog.AdjustInventory(ctx, user, item.ID.Hex(), count(1))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	root := admin(user)
	updated, err := e.catalog.Update(ctx, root, item.ID.Hex(), dto.ItemInput{Price: num(3)})
	require.NoError(t, err)
	assert.Equal(t, 3.0, updated.Price)
	assert.Equal(t, "Pen", updated.Name)
	assert.Equal(t, 10, updated.Quantity)

	_, err = e.catalog.Update(ctx, root, primitive.NewObjectID().Hex(), dto.ItemInput{Price: num(3)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	adjusted, err := e.catalog.AdjustInventory(ctx, root, item.ID.Hex(), count(42))
	require.NoError(t, err)
	assert.Equal(t, 42, adjusted.Quantity)
	_, err = e.catalog.AdjustInventory(ctx, root, item.ID.Hex(), count(-1))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = e.catalog.AdjustInventory(ctx, root, item.ID.Hex(), nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, e.catalog.Delete(ctx, root, item.ID.Hex()))
	require.NoError(t, e.catalog.Delete(ctx, root, item.ID.Hex()))
	_, err = e.catalog.Get(ctx, item.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCatalogListQuery(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.catalog.SeedSamples(ctx))
	require.NoError(t, e.catalog.SeedSamples(ctx))

	all, err := e.catalog.List(ctx, dto.ItemQuery{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 12)
	assert.Equal(t, "AirPods Pro", all[0].Name)

	phones, err := e.catalog.List(ctx, dto.ItemQuery{Category: "phone", Sort: "priceDesc"})
	require.NoError(t, err)
	require.Len(t, phones, 2)
	assert.Equal(t, "iPhone 15 Pro", phones[0].Name)

	cheap, err := e.catalog.List(ctx, dto.ItemQuery{Brand: "Apple", SortBy: "price"})
	require.NoError(t, err)
	require.NotEmpty(t, cheap)
	assert.Equal(t, "AirPods Pro", cheap[0].Name)

	found, err := e.catalog.List(ctx, dto.ItemQuery{Search: "NOISE"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}
