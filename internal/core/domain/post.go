package domain

import "time"

// PostStatus is the authoritative visibility gate on a post. The legacy
// Published boolean is kept for older clients but is not consulted by the
// visibility rules.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusScheduled PostStatus = "scheduled"
	StatusPrivate   PostStatus = "private"
)

// ValidStatus reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusScheduled, StatusPrivate:
		return true
	}
	return false
}

// Comment is embedded in its post; it has no standalone collection.
// AuthorID links back to the user, unlike the post's denormalized author name.
type Comment struct {
	ID        string
	Author    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// Post is the aggregate root of the posts collection. Author is a display
// name, not a user id — post ownership checks compare names.
type Post struct {
	ID          string
	Title       string
	Content     string
	Author      string
	Category    string
	Tags        []string
	Published   bool
	Status      PostStatus
	ScheduledAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Comments    []Comment
}

// VisibleTo applies the per-status read policy for a single post.
// Anything that matches no branch (including "scheduled") stays hidden.
func (p *Post) VisibleTo(role, viewerName string) bool {
	switch p.Status {
	case StatusPublished:
		return true
	case StatusDraft:
		return role == RoleTeacher || role == RoleAdmin
	case StatusPrivate:
		return viewerName != "" && p.Author == viewerName
	}
	return false
}
