package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campustech-backend/internal/models"
)

// GetOrCreateCart is a single upsert on the unique user index, so concurrent first reads
// cannot create two carts. The user field is taken from the upsert filter.
func (s *Store) GetOrCreateCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	now := s.now()
	update := bson.M{"$setOnInsert": bson.M{
		"items":     []models.CartItem{},
		"createdAt": now,
		"updatedAt": now,
	}}
	return s.upsertCart(ctx, userID, update)
}

func (s *Store) ReplaceCartItems(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (models.Cart, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	now := s.now()
	update := bson.M{
		"$set":         bson.M{"items": items, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	return s.upsertCart(ctx, userID, update)
}

func (s *Store) upsertCart(ctx context.Context, userID primitive.ObjectID, update bson.M) (models.Cart, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var cart models.Cart
	err := s.carts().FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&cart)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an upsert race on the unique user index; the cart exists now.
		err = s.carts().FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&cart)
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("upsert cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}
