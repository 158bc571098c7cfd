package dto

import (
	"time"

	"mangapress/internal/http-api/models"
)

// CreateChapterRequest: payload for adding a chapter to a manga.
// PublishDate may be in the future to schedule the release; readers
// below creator role will not see the chapter until then.
type CreateChapterRequest struct {
	Number      float64    `json:"number" binding:"required,gte=0"`
	Title       string     `json:"title" binding:"max=200"`
	Pages       []string   `json:"pages"`
	PublishDate *time.Time `json:"publish_date"`
}

func (r *CreateChapterRequest) ToModel(mangaID string) models.Chapter {
	pages := r.Pages
	if pages == nil {
		pages = []string{}
	}
	return models.Chapter{
		MangaID:     mangaID,
		Number:      r.Number,
		Title:       r.Title,
		Pages:       pages,
		PublishDate: r.PublishDate,
	}
}

// UpdateChapterRequest: partial update, nil fields are left untouched
type UpdateChapterRequest struct {
	Number      *float64   `json:"number" binding:"omitempty,gte=0"`
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Pages       []string   `json:"pages"`
	PublishDate *time.Time `json:"publish_date"`
}

func (r *UpdateChapterRequest) ApplyTo(ch *models.Chapter) {
	if r.Number != nil {
		ch.Number = *r.Number
	}
	if r.Title != nil {
		ch.Title = *r.Title
	}
	if r.Pages != nil {
		ch.Pages = r.Pages
	}
	if r.PublishDate != nil {
		ch.PublishDate = r.PublishDate
	}
}
