package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/auth"
	"campustech-backend/internal/config"
	"campustech-backend/internal/models"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/storage"
)

const bearerPrefix = "Bearer "

// AuthService registers users, logs them in and verifies bearer tokens.
type AuthService struct {
	users       storage.UserStore
	tokens      *auth.TokenManager
	revocations auth.Revocations
	adminEmail  string
}

func NewAuthService(users storage.UserStore, tokens *auth.TokenManager, revocations auth.Revocations, cfg *config.Config) *AuthService {
	if revocations == nil {
		revocations = auth.NoRevocations{}
	}
	return &AuthService{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		adminEmail:  normalizeEmail(cfg.AdminEmail),
	}
}

// Register creates a non-admin account and returns its public projection.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (models.PublicUser, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return models.PublicUser{}, apperr.Validation("name, email, and password are required")
	}

	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return models.PublicUser{}, apperr.Conflict("email already registered")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.PublicUser{}, apperr.Internal(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.PublicUser{}, apperr.Internal(err)
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
	}
	if req.Billing != nil {
		last4, err := validLast4(req.Billing.Last4)
		if err != nil {
			return models.PublicUser{}, err
		}
		user.Billing = *req.Billing
		user.Billing.Last4 = last4
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.PublicUser{}, apperr.Conflict("email already registered")
		}
		return models.PublicUser{}, apperr.Internal(err)
	}
	return created.Public(), nil
}

// Login verifies credentials and issues a token. The configured admin email is
// promoted to admin, persisted, before the token is signed.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return dto.LoginResponse{}, apperr.Validation("email and password are required")
	}
	invalid := apperr.Unauthorized("invalid email or password")

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return dto.LoginResponse{}, invalid
		}
		return dto.LoginResponse{}, apperr.Internal(err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return dto.LoginResponse{}, invalid
	}

	if s.adminEmail != "" && user.Email == s.adminEmail && !user.IsAdmin {
		if err := s.users.SetAdmin(ctx, user.ID, true); err != nil {
			return dto.LoginResponse{}, apperr.Internal(err)
		}
		log.Printf("auth: promoted %s to admin", user.Email)
		user.IsAdmin = true
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return dto.LoginResponse{}, apperr.Internal(err)
	}
	return dto.LoginResponse{Token: token, User: user.Public()}, nil
}

// Authenticate turns an Authorization header into a verified identity.
func (s *AuthService) Authenticate(ctx context.Context, header string) (auth.Identity, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return auth.Identity{}, apperr.Unauthorized("missing or invalid Authorization header")
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if tokenStr == "" {
		return auth.Identity{}, apperr.Unauthorized("missing or invalid Authorization header")
	}

	id, err := s.tokens.Parse(tokenStr)
	if err != nil {
		return auth.Identity{}, apperr.Unauthorized("invalid or expired token")
	}
	revoked, err := s.revocations.IsRevoked(ctx, id.TokenID)
	if err != nil {
		return auth.Identity{}, apperr.Internal(err)
	}
	if revoked {
		return auth.Identity{}, apperr.Unauthorized("token has been revoked")
	}
	return id, nil
}

// Logout revokes the caller's token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, id auth.Identity) error {
	if err := s.revocations.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
