package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campustech-backend/internal/models"
	"campustech-backend/internal/storage"
)

// CreateUser inserts a new user document.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	if err := s.users().FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of patch with a single $set.
func (s *Store) UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (models.User, error) {
	set := bson.M{"updatedAt": s.now()}
	putString(set, "name", patch.Name)
	putString(set, "phone", patch.Phone)
	putString(set, "address", patch.Address)
	putString(set, "city", patch.City)
	putString(set, "postalCode", patch.PostalCode)
	putString(set, "country", patch.Country)
	putString(set, "avatar", patch.Avatar)
	if b := patch.Billing; b != nil {
		putString(set, "billing.cardBrand", b.CardBrand)
		putString(set, "billing.last4", b.Last4)
		putString(set, "billing.expMonth", b.ExpMonth)
		putString(set, "billing.expYear", b.ExpYear)
	}

	var user models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.users().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *Store) SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error {
	res, err := s.users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isAdmin": isAdmin, "updatedAt": s.now()}})
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := s.users().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func putString(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}
