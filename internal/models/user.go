package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Billing holds card metadata only. A full card number is never stored.
type Billing struct {
	CardBrand string `bson:"cardBrand" json:"cardBrand"`
	Last4     string `bson:"last4" json:"last4"`
	ExpMonth  string `bson:"expMonth" json:"expMonth"`
	ExpYear   string `bson:"expYear" json:"expYear"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`
	Phone        string             `bson:"phone" json:"phone"`
	Address      string             `bson:"address" json:"address"`
	City         string             `bson:"city" json:"city"`
	PostalCode   string             `bson:"postalCode" json:"postalCode"`
	Country      string             `bson:"country" json:"country"`
	Avatar       string             `bson:"avatar" json:"avatar"`
	Billing      Billing            `bson:"billing" json:"billing"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the projection returned by register and login.
type PublicUser struct {
	ID      primitive.ObjectID `json:"id"`
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	IsAdmin bool               `json:"isAdmin"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

// BillingPatch updates individual billing fields; nil fields are left alone.
type BillingPatch struct {
	CardBrand *string `json:"cardBrand"`
	Last4     *string `json:"last4"`
	ExpMonth  *string `json:"expMonth"`
	ExpYear   *string `json:"expYear"`
}

// UserPatch is a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	Name       *string       `json:"name"`
	Phone      *string       `json:"phone"`
	Address    *string       `json:"address"`
	City       *string       `json:"city"`
	PostalCode *string       `json:"postalCode"`
	Country    *string       `json:"country"`
	Avatar     *string       `json:"avatar"`
	Billing    *BillingPatch `json:"billing"`
}

// Apply copies every non-nil field of p onto u.
func (p UserPatch) Apply(u *User) {
	setString(&u.Name, p.Name)
	setString(&u.Phone, p.Phone)
	setString(&u.Address, p.Address)
	setString(&u.City, p.City)
	setString(&u.PostalCode, p.PostalCode)
	setString(&u.Country, p.Country)
	setString(&u.Avatar, p.Avatar)
	if p.Billing != nil {
		setString(&u.Billing.CardBrand, p.Billing.CardBrand)
		setString(&u.Billing.Last4, p.Billing.Last4)
		setString(&u.Billing.ExpMonth, p.Billing.ExpMonth)
		setString(&u.Billing.ExpYear, p.Billing.ExpYear)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
