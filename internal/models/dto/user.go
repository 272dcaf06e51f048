package dto

import "campustech-backend/internal/models"

// ProfileUpdate is the self-service profile body. Billing is admin-only and lives on models.UserPatch.
type ProfileUpdate struct {
	Name       string  `json:"name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
	Avatar     *string `json:"avatar"`
}

// Patch leaves the name untouched when it is blank.
func (p ProfileUpdate) Patch() models.UserPatch {
	patch := models.UserPatch{
		Phone:      p.Phone,
		Address:    p.Address,
		City:       p.City,
		PostalCode: p.PostalCode,
		Country:    p.Country,
		Avatar:     p.Avatar,
	}
	if p.Name != "" {
		name := p.Name
		patch.Name = &name
	}
	return patch
}
