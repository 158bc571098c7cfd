package dto

import "mangapress/internal/http-api/models"

// CreateMangaRequest: payload for creating a manga
type CreateMangaRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description"`
	CoverImage  string   `json:"cover_image"`
	Genres      []string `json:"genres"`
	Status      string   `json:"status" binding:"omitempty,oneof=ongoing completed hiatus"`
}

func (r *CreateMangaRequest) ToModel() models.Manga {
	status := r.Status
	if status == "" {
		status = "ongoing"
	}
	genres := r.Genres
	if genres == nil {
		genres = []string{}
	}
	return models.Manga{
		Title:       r.Title,
		Description: r.Description,
		CoverImage:  r.CoverImage,
		Genres:      genres,
		Status:      status,
	}
}

// UpdateMangaRequest: partial update, nil fields are left untouched
type UpdateMangaRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=200"`
	Description *string  `json:"description"`
	CoverImage  *string  `json:"cover_image"`
	Genres      []string `json:"genres"`
	Status      *string  `json:"status" binding:"omitempty,oneof=ongoing completed hiatus"`
}

// ApplyTo copies the provided fields onto an existing manga.
func (r *UpdateMangaRequest) ApplyTo(m *models.Manga) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.CoverImage != nil {
		m.CoverImage = *r.CoverImage
	}
	if r.Genres != nil {
		m.Genres = r.Genres
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
}
