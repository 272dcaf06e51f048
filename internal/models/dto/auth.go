package dto

import "campustech-backend/internal/models"

type RegisterRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	City       string          `json:"city"`
	PostalCode string          `json:"postalCode"`
	Country    string          `json:"country"`
	Billing    *models.Billing `json:"billing"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}
