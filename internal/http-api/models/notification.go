package models

import "time"

type Notification struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Type      string    `bson:"type" json:"type"` // TIP_RECEIVED, NEW_FOLLOWER, NEW_CHAPTER
	MangaID   string    `bson:"manga_id,omitempty" json:"manga_id,omitempty"`
	Message   string    `bson:"message" json:"message"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
