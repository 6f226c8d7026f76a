package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
)

// UserDTO is the transport shape for staff users.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar,omitempty"`
	IsAllowed bool      `json:"isAllowed"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserDTO is the request body for registering a staff user.
type CreateUserDTO struct {
	Name      string  `json:"name" validate:"required,min=1,max=120"`
	Email     string  `json:"email" validate:"required,email"`
	Avatar    *string `json:"avatar,omitempty" validate:"omitempty,url"`
	IsAllowed *bool   `json:"isAllowed,omitempty"`
	IsAdmin   bool    `json:"isAdmin"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		IsAllowed: u.IsAllowed,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isAllowed := true
	if c.IsAllowed != nil {
		isAllowed = *c.IsAllowed
	}
	return &models.User{
		Name:      strings.TrimSpace(c.Name),
		Email:     NormalizeEmail(c.Email),
		Avatar:    c.Avatar,
		IsAllowed: isAllowed,
		IsAdmin:   c.IsAdmin,
	}
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
