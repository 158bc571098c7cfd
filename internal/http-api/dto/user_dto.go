package dto

import (
	"time"

	"mangapress/internal/http-api/models"
)

// UpdateProfileRequest: fields a user may change on their own profile
type UpdateProfileRequest struct {
	Nickname string `json:"nickname" binding:"required,max=50"`
}

// ProfileResponse: public view of a user
type ProfileResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Nickname   string    `json:"nickname,omitempty"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	Followers  int       `json:"followers"`
	Following  int       `json:"following"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromUserToProfile(u *models.User) ProfileResponse {
	return ProfileResponse{
		ID:         u.ID,
		Username:   u.Username,
		Nickname:   u.Nickname,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		Followers:  len(u.Followers),
		Following:  len(u.Following),
		CreatedAt:  u.CreatedAt,
	}
}
