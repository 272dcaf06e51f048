package service

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/auth"
	"campustech-backend/internal/models"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/storage"
)

// UserService reads and edits profiles.
type UserService struct {
	users storage.UserStore
}

func NewUserService(users storage.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Me(ctx context.Context, id auth.Identity) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, id.UserID)
	if err != nil {
		return models.User{}, storeErr(err, "user")
	}
	return user, nil
}

func (s *UserService) UpdateMe(ctx context.Context, id auth.Identity, req dto.ProfileUpdate) (models.User, error) {
	user, err := s.users.UpdateUser(ctx, id.UserID, req.Patch())
	if err != nil {
		return models.User{}, storeErr(err, "user")
	}
	return user, nil
}

// AdminUpdate edits any user's profile and billing metadata.
func (s *UserService) AdminUpdate(ctx context.Context, id auth.Identity, rawUserID string, patch models.UserPatch) (models.User, error) {
	if err := requireAdmin(id); err != nil {
		return models.User{}, err
	}
	userID, err := parseID(rawUserID, "user")
	if err != nil {
		return models.User{}, err
	}
	if patch.Billing != nil && patch.Billing.Last4 != nil {
		last4, err := validLast4(*patch.Billing.Last4)
		if err != nil {
			return models.User{}, err
		}
		patch.Billing.Last4 = &last4
	}
	user, err := s.users.UpdateUser(ctx, userID, patch)
	if err != nil {
		return models.User{}, storeErr(err, "user")
	}
	return user, nil
}

func (s *UserService) AdminList(ctx context.Context, id auth.Identity) ([]models.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// validLast4 accepts exactly four ASCII digits so a full card number is never stored.
func validLast4(v string) (string, error) {
	v = strings.TrimSpace(v)
	if len(v) != 4 {
		return "", apperr.Validation("last4 must be exactly four digits")
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return "", apperr.Validation("last4 must be exactly four digits")
		}
	}
	return v, nil
}

// saveBilling stores card metadata on the user. Only brand, last four and expiry are kept.
func (s *UserService) saveBilling(ctx context.Context, userID primitive.ObjectID, p dto.PaymentRequest) error {
	_, err := s.users.UpdateUser(ctx, userID, models.UserPatch{Billing: &models.BillingPatch{
		CardBrand: &p.CardBrand,
		Last4:     &p.Last4,
		ExpMonth:  &p.ExpMonth,
		ExpYear:   &p.ExpYear,
	}})
	return err
}
