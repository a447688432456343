package handler

import "time"

// Request schemas for the post routes. The author field is deliberately
// absent from create/update: it is always forced server-side to the
// authenticated caller's name.

type createPostRequest struct {
	Title       string     `json:"title"    validate:"required,max=200"`
	Content     string     `json:"content"  validate:"required,max=5000"`
	Category    string     `json:"category" validate:"omitempty,max=100"`
	Tags        []string   `json:"tags"`
	Published   *bool      `json:"published"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft published scheduled private"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type updatePostRequest struct {
	Title       *string    `json:"title"    validate:"omitempty,min=1,max=200"`
	Content     *string    `json:"content"  validate:"omitempty,min=1,max=5000"`
	Category    *string    `json:"category" validate:"omitempty,max=100"`
	Tags        *[]string  `json:"tags"`
	Published   *bool      `json:"published"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft published scheduled private"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}
