package dto

// CreateCommentRequest: payload for commenting on a manga
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// UpdateCommentRequest: payload for editing an own comment
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}
