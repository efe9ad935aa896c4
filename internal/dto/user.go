package dto

import "github.com/yukikurage/project-task-api/internal/models"

// UserDTO is the summary of a related user (owner, assignee)
type UserDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ProfileDTO is the caller's own account
type ProfileDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:   user.ID,
		Name: user.Name,
	}
}

// ToProfileDTO converts a User model to ProfileDTO
func ToProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func toUserRef(user *models.User) *UserDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	ref := ToUserDTO(*user)
	return &ref
}
