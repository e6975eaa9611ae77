package dto

import (
	"github.com/tvhoang/workunit-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash never
// leaves the server.
type UserDTO struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Position           string          `json:"position"`
	Unit               string          `json:"unit"`
	Gender             models.Gender   `json:"gender,omitempty"`
	Email              string          `json:"email"`
	Role               models.UserRole `json:"role"`
	DelegateLevel      string          `json:"delegate_level"`
	MustChangePassword bool            `json:"must_change_password"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                 user.ID,
		Name:               user.Name,
		Position:           user.Position,
		Unit:               user.Unit,
		Gender:             user.Gender,
		Email:              user.Email,
		Role:               user.Role,
		DelegateLevel:      user.DelegateLevel,
		MustChangePassword: user.MustChangePassword,
	}
}

// ToUserDTOs converts a slice of users.
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
