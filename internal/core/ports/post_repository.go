package ports

import (
	"context"
	"time"

	"github.com/escola-conecta/blog-api/internal/core/domain"
)

// ListPostsFilter selects which posts a listing query returns.
//
// PublishedOnly=true is the public listing (status=published).
// PublishedOnly=false is the staff listing: published and draft posts,
// unioned with the caller's own private posts when CurrentAuthor is set.
type ListPostsFilter struct {
	PublishedOnly bool
	CurrentAuthor string
	Skip          int
	Limit         int
}

// PostUpdate carries a partial post update. Nil fields are left untouched.
type PostUpdate struct {
	Title       *string
	Content     *string
	Author      *string
	Category    *string
	Tags        *[]string
	Published   *bool
	Status      *domain.PostStatus
	ScheduledAt *time.Time
}

// PostRepository defines persistence operations for posts and their
// embedded comments.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns a page of posts matching filter plus the total count,
	// newest first.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
	Update(ctx context.Context, id string, upd PostUpdate) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	// Search matches query case-insensitively against title, content and
	// tags of published posts only.
	Search(ctx context.Context, query string, skip, limit int) ([]*domain.Post, int64, error)
	// SetComments replaces the whole comment array. Appends and in-place
	// edits are read-modify-write; concurrent comment writes to the same
	// post can race (accepted, single-document atomicity only).
	SetComments(ctx context.Context, id string, comments []domain.Comment) (*domain.Post, error)
}
