package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
	RoleAdmin  = "admin"
)

type User struct {
	ID              string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username        string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email           string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    string    `json:"-" gorm:"type:varchar(128)"`
	UserType        string    `json:"user_type" gorm:"type:varchar(20);index;not null;default:'buyer'"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	FarmName        string    `json:"farm_name"`
	Location        string    `json:"location"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	ProfileImageURL string    `json:"profile_image_url"`
	FullName        string    `json:"full_name" gorm:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// AfterFind fills the display name on every read path.
func (u *User) AfterFind(tx *gorm.DB) error {
	u.FullName = u.DisplayName()
	return nil
}

// DisplayName is "first last" when either is set, then username, then email.
func (u User) DisplayName() string {
	if u.FirstName != "" || u.LastName != "" {
		return strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

func (u User) IsAdmin() bool {
	return u.UserType == RoleAdmin
}

type RegisterData struct {
	Username        string `json:"username" binding:"required,min=3,max=50"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=100"`
	UserType        string `json:"user_type" binding:"omitempty,oneof=farmer buyer"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	FarmName        string `json:"farm_name"`
	Location        string `json:"location"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	ProfileImageURL string `json:"profile_image_url" binding:"omitempty,url"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserPatch carries only the fields a caller sent.
type UserPatch struct {
	Username        *string `json:"username" binding:"omitempty,min=3,max=50"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	FarmName        *string `json:"farm_name"`
	Location        *string `json:"location"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,url"`
}

func (p UserPatch) Updates() map[string]any {
	updates := map[string]any{}
	setIfPresent(updates, "username", p.Username)
	setIfPresent(updates, "first_name", p.FirstName)
	setIfPresent(updates, "last_name", p.LastName)
	setIfPresent(updates, "farm_name", p.FarmName)
	setIfPresent(updates, "location", p.Location)
	setIfPresent(updates, "phone", p.Phone)
	setIfPresent(updates, "address", p.Address)
	setIfPresent(updates, "profile_image_url", p.ProfileImageURL)
	return updates
}

func setIfPresent[T any](updates map[string]any, column string, value *T) {
	if value != nil {
		updates[column] = *value
	}
}
