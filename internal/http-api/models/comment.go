package models

import "time"

type Comment struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Username  string    `bson:"username" json:"username"` // denormalized for display
	MangaID   string    `bson:"manga_id" json:"manga_id"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
