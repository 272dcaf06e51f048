package service

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/auth"
	"campustech-backend/internal/storage"
)

// requireAdmin trusts the admin flag carried in the token.
func requireAdmin(id auth.Identity) error {
	if !id.IsAdmin {
		return apperr.Forbidden("admin access required")
	}
	return nil
}

// parseID treats a malformed id like an id that does not exist.
func parseID(raw, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("%s not found", what)
	}
	return oid, nil
}

// storeErr maps a storage failure to the caller-facing category.
func storeErr(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("%s not found", what)
	}
	return apperr.Internal(err)
}
