package models

import "time"

type Manga struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatorID   string    `bson:"creator_id" json:"creator_id"`
	CoverImage  string    `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Genres      []string  `bson:"genres" json:"genres"`
	Status      string    `bson:"status" json:"status"` // ongoing, completed, hiatus
	Views       int64     `bson:"views" json:"views"`
	Likes       int64     `bson:"likes" json:"likes"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
