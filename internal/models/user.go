// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username        string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string     `json:"-" gorm:"size:255;not null"`
	DisplayName     string     `json:"display_name" gorm:"size:100"`
	IsAdmin         bool       `json:"is_admin" gorm:"default:false"`
	Status          UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	StripeCustomer  string     `json:"-" gorm:"size:255"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Relationships
	Artists []Artist `json:"artists,omitempty" gorm:"foreignKey:OwnerID"`
	Pledges []Pledge `json:"pledges,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Name returns the name shown to artists in supporter views. Raw user ids
// never leave the API, so this is the primary public identity.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
