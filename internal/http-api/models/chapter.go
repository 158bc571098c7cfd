package models

import "time"

// Chapter belongs to exactly one manga. Number is a float so
// half-chapters and specials (12.5) sort where readers expect.
type Chapter struct {
	ID          string     `bson:"_id" json:"id"`
	MangaID     string     `bson:"manga_id" json:"manga_id"`
	Number      float64    `bson:"number" json:"number"`
	Title       string     `bson:"title,omitempty" json:"title,omitempty"`
	Pages       []string   `bson:"pages" json:"pages"` // page image URLs, in order
	PublishDate *time.Time `bson:"publish_date,omitempty" json:"publish_date,omitempty"`
	Views       int64      `bson:"views" json:"views"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// PublishedAt reports whether the chapter is visible to readers at the
// given instant. A chapter with no publish date is published immediately;
// a future date keeps it gated to creators and admins.
func (c *Chapter) PublishedAt(now time.Time) bool {
	return c.PublishDate == nil || !c.PublishDate.After(now)
}
