package models

import "time"

type User struct {
	ID         string    `bson:"_id" json:"id"`
	Username   string    `bson:"username" json:"username"`
	Nickname   string    `bson:"nickname,omitempty" json:"nickname,omitempty"`
	Email      string    `bson:"email" json:"email"`
	Password   string    `bson:"password_hash" json:"-"` // Not show in JSON
	Role       Role      `bson:"role" json:"role"`
	Coins      int64     `bson:"coins" json:"coins"`
	Following  []string  `bson:"following" json:"following"`
	Followers  []string  `bson:"followers" json:"followers"`
	IsVerified bool      `bson:"is_verified" json:"is_verified"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// IsFollowing reports whether the user already follows the given user id.
func (u *User) IsFollowing(userID string) bool {
	for _, id := range u.Following {
		if id == userID {
			return true
		}
	}
	return false
}
