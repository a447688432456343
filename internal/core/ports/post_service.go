package ports

import (
	"context"
	"time"
)

// Viewer is the acting identity resolved from a bearer token. The zero
// value means an anonymous request.
type Viewer struct {
	ID   string
	Name string
	Role string
}

// Anonymous reports whether no identity was resolved.
func (v Viewer) Anonymous() bool { return v.ID == "" }

// CreatePostInput carries the data for a new post. Author is not part of
// the input: it is forced server-side to the caller's display name.
type CreatePostInput struct {
	Title       string
	Content     string
	Category    string
	Tags        []string
	Published   *bool
	Status      string
	ScheduledAt *time.Time
}

// UpdatePostInput is a partial post update; nil fields are ignored.
type UpdatePostInput struct {
	Title       *string
	Content     *string
	Category    *string
	Tags        *[]string
	Published   *bool
	Status      *string
	ScheduledAt *time.Time
}

// CommentView is the public shape of an embedded comment.
type CommentView struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostView is the public shape of a post.
type PostView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Author      string        `json:"author"`
	Category    string        `json:"category,omitempty"`
	Tags        []string      `json:"tags"`
	Published   bool          `json:"published"`
	Status      string        `json:"status"`
	ScheduledAt time.Time     `json:"scheduledAt,omitzero"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Comments    []CommentView `json:"comments"`
}

// PostPage is a paginated listing result.
type PostPage struct {
	Data       []PostView `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

// PostService implements the post visibility and comment policy.
type PostService interface {
	Create(ctx context.Context, in CreatePostInput, authorName string) (*PostView, error)
	// FindAll is the public listing: published posts only.
	FindAll(ctx context.Context, page, limit int) (*PostPage, error)
	// FindAllForStaff lists published and draft posts plus the viewer's
	// own private posts.
	FindAllForStaff(ctx context.Context, page, limit int, viewer Viewer) (*PostPage, error)
	FindOne(ctx context.Context, id string, viewer Viewer) (*PostView, error)
	Update(ctx context.Context, id string, in UpdatePostInput, authorName string) (*PostView, error)
	Delete(ctx context.Context, id string) error
	// Search is always scoped to published posts.
	Search(ctx context.Context, query string, page, limit int) (*PostPage, error)
	AddComment(ctx context.Context, postID, content string, viewer Viewer) (*PostView, error)
	UpdateComment(ctx context.Context, postID, commentID, content string, viewer Viewer) (*PostView, error)
	DeleteComment(ctx context.Context, postID, commentID string, viewer Viewer) (*PostView, error)
}
