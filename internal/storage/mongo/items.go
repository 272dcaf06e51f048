package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campustech-backend/internal/models"
	"campustech-backend/internal/storage"
)

func (s *Store) CreateItem(ctx context.Context, item models.Item) (models.Item, error) {
	s.stampNewItem(&item)
	if _, err := s.items().InsertOne(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

func (s *Store) InsertItems(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		s.stampNewItem(&item)
		docs = append(docs, item)
	}
	if _, err := s.items().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

func (s *Store) stampNewItem(item *models.Item) {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	now := s.now()
	item.CreatedAt, item.UpdatedAt = now, now
}

func (s *Store) CountItems(ctx context.Context) (int64, error) {
	n, err := s.items().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (s *Store) FindItem(ctx context.Context, id primitive.ObjectID) (models.Item, error) {
	var item models.Item
	if err := s.items().FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Item{}, storage.ErrNotFound
		}
		return models.Item{}, fmt.Errorf("find item: %w", err)
	}
	return item, nil
}

func (s *Store) FindItems(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Item, error) {
	out := make(map[primitive.ObjectID]models.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.items().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	var items []models.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}

// ListItems applies every filter with AND semantics; search matches name or description.
func (s *Store) ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Brand != "" {
		query["brand"] = filter.Brand
	}
	if filter.Owner != nil {
		query["owner"] = *filter.Owner
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}

	field := "name"
	switch filter.SortBy {
	case models.SortByPrice:
		field = "price"
	case models.SortByCreated:
		field = "createdAt"
	}
	dir := 1
	if filter.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}})

	cur, err := s.items().Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	items := []models.Item{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, id primitive.ObjectID, patch models.ItemPatch) (models.Item, error) {
	set := bson.M{"updatedAt": s.now()}
	putString(set, "name", patch.Name)
	putString(set, "description", patch.Description)
	putString(set, "category", patch.Category)
	putString(set, "brand", patch.Brand)
	putString(set, "imageUrl", patch.ImageURL)
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}

	var item models.Item
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.items().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Item{}, storage.ErrNotFound
		}
		return models.Item{}, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

func (s *Store) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.items().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// DecrementStock only matches when quantity >= qty, so stock never goes negative
// even outside a transaction.
func (s *Store) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.items().UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"quantity": -qty}, "$set": bson.M{"updatedAt": s.now()}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := s.items().CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return fmt.Errorf("decrement %s by %d: %w", id.Hex(), qty, storage.ErrInsufficientStock)
}

func (s *Store) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.items().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"quantity": qty}, "$set": bson.M{"updatedAt": s.now()}},
	)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
