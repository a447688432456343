package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/escola-conecta/blog-api/internal/core/domain"
	"github.com/escola-conecta/blog-api/internal/core/ports"
	"github.com/escola-conecta/blog-api/internal/metrics"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ListingCache abstracts the Redis cache for public listings and search
// results. A nil cache disables caching entirely.
type ListingCache interface {
	GetPage(ctx context.Context, kind, query string, page, limit int) (*ports.PostPage, bool)
	SetPage(ctx context.Context, kind, query string, page, limit int, pg *ports.PostPage)
	// Bump invalidates all cached pages after any post mutation.
	Bump(ctx context.Context)
}

// PostService implements the post visibility and comment policy.
type PostService struct {
	repo  ports.PostRepository
	cache ListingCache
	log   zerolog.Logger
}

func NewPostService(repo ports.PostRepository, cache ListingCache, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, cache: cache, log: log}
}

// Create stores a new post. The author name comes from the authenticated
// caller; any client-supplied author was discarded by the handler.
func (s *PostService) Create(ctx context.Context, in ports.CreatePostInput, authorName string) (*ports.PostView, error) {
	status := domain.PostStatus(in.Status)
	if !status.Valid() {
		status = domain.StatusPublished
	}
	published := true
	if in.Published != nil {
		published = *in.Published
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     in.Title,
		Content:   in.Content,
		Author:    authorName,
		Category:  in.Category,
		Tags:      in.Tags,
		Published: published,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
		Comments:  []domain.Comment{},
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if in.ScheduledAt != nil {
		post.ScheduledAt = *in.ScheduledAt
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create post")
		return nil, err
	}

	s.bumpCache(ctx)
	metrics.PostsCreatedTotal.WithLabelValues(string(created.Status)).Inc()
	s.log.Info().Str("post_id", created.ID).Str("author", authorName).Msg("post created")

	view := toPostView(created)
	return &view, nil
}

// FindAll is the public listing: published posts only, newest first.
func (s *PostService) FindAll(ctx context.Context, page, limit int) (*ports.PostPage, error) {
	page, limit = normalizePage(page, limit)

	if s.cache != nil {
		if pg, ok := s.cache.GetPage(ctx, "public", "", page, limit); ok {
			metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
			return pg, nil
		}
		metrics.ListingCacheTotal.WithLabelValues("miss").Inc()
	}

	posts, total, err := s.repo.List(ctx, ports.ListPostsFilter{
		PublishedOnly: true,
		Skip:          (page - 1) * limit,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}

	pg := toPostPage(posts, total, page, limit)
	if s.cache != nil {
		s.cache.SetPage(ctx, "public", "", page, limit, pg)
	}
	return pg, nil
}

// FindAllForStaff lists published and draft posts plus the viewer's own
// private posts. The role gate lives in the routing layer.
func (s *PostService) FindAllForStaff(ctx context.Context, page, limit int, viewer ports.Viewer) (*ports.PostPage, error) {
	page, limit = normalizePage(page, limit)

	posts, total, err := s.repo.List(ctx, ports.ListPostsFilter{
		CurrentAuthor: viewer.Name,
		Skip:          (page - 1) * limit,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	return toPostPage(posts, total, page, limit), nil
}

// FindOne applies the visibility policy for a single read. A post the
// viewer may not see is indistinguishable from a missing one.
func (s *PostService) FindOne(ctx context.Context, id string, viewer ports.Viewer) (*ports.PostView, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewer.Role, viewer.Name) {
		return nil, domain.ErrPostNotFound
	}
	view := toPostView(post)
	return &view, nil
}

// Update applies a partial update. The author field is overwritten with
// the updater's name, matching create semantics.
func (s *PostService) Update(ctx context.Context, id string, in ports.UpdatePostInput, authorName string) (*ports.PostView, error) {
	upd := ports.PostUpdate{
		Title:       in.Title,
		Content:     in.Content,
		Author:      &authorName,
		Category:    in.Category,
		Tags:        in.Tags,
		Published:   in.Published,
		ScheduledAt: in.ScheduledAt,
	}
	if in.Status != nil {
		status := domain.PostStatus(*in.Status)
		upd.Status = &status
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.bumpCache(ctx)
	view := toPostView(updated)
	return &view, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bumpCache(ctx)
	return nil
}

// Search matches published posts only, case-insensitively across title,
// content and tags.
func (s *PostService) Search(ctx context.Context, query string, page, limit int) (*ports.PostPage, error) {
	page, limit = normalizePage(page, limit)

	if s.cache != nil {
		if pg, ok := s.cache.GetPage(ctx, "search", query, page, limit); ok {
			metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
			return pg, nil
		}
		metrics.ListingCacheTotal.WithLabelValues("miss").Inc()
	}

	posts, total, err := s.repo.Search(ctx, query, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	pg := toPostPage(posts, total, page, limit)
	if s.cache != nil {
		s.cache.SetPage(ctx, "search", query, page, limit, pg)
	}
	return pg, nil
}

// AddComment appends a comment for any authenticated viewer. Author name
// and id are taken from the resolved identity, never from the payload.
func (s *PostService) AddComment(ctx context.Context, postID, content string, viewer ports.Viewer) (*ports.PostView, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments := append(post.Comments, domain.Comment{
		Author:    viewer.Name,
		AuthorID:  viewer.ID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})

	updated, err := s.repo.SetComments(ctx, postID, comments)
	if err != nil {
		return nil, err
	}

	s.bumpCache(ctx)
	metrics.CommentsAddedTotal.Inc()

	view := toPostView(updated)
	return &view, nil
}

// UpdateComment edits a comment's content. Only the comment's owner or an
// admin may edit; everyone else gets Forbidden, never NotFound.
func (s *PostService) UpdateComment(ctx context.Context, postID, commentID, content string, viewer ports.Viewer) (*ports.PostView, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := findComment(post.Comments, commentID)
	if idx < 0 {
		return nil, domain.ErrCommentNotFound
	}
	comment := post.Comments[idx]
	if comment.AuthorID != viewer.ID && viewer.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	post.Comments[idx].Content = content
	updated, err := s.repo.SetComments(ctx, postID, post.Comments)
	if err != nil {
		return nil, err
	}

	s.bumpCache(ctx)
	view := toPostView(updated)
	return &view, nil
}

// DeleteComment removes a comment. Owners, teachers and admins may delete.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID string, viewer ports.Viewer) (*ports.PostView, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := findComment(post.Comments, commentID)
	if idx < 0 {
		return nil, domain.ErrCommentNotFound
	}
	comment := post.Comments[idx]
	if comment.AuthorID != viewer.ID && viewer.Role != domain.RoleAdmin && viewer.Role != domain.RoleTeacher {
		return nil, domain.ErrForbidden
	}

	comments := append(post.Comments[:idx:idx], post.Comments[idx+1:]...)
	updated, err := s.repo.SetComments(ctx, postID, comments)
	if err != nil {
		return nil, err
	}

	s.bumpCache(ctx)
	view := toPostView(updated)
	return &view, nil
}

func (s *PostService) bumpCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Bump(ctx)
	}
}

// findComment scans the embedded array linearly; comment counts per post
// are small and the array is already in memory.
func findComment(comments []domain.Comment, id string) int {
	for i, c := range comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func toPostPage(posts []*domain.Post, total int64, page, limit int) *ports.PostPage {
	views := make([]ports.PostView, len(posts))
	for i, p := range posts {
		views[i] = toPostView(p)
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.PostPage{
		Data:       views,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

func toPostView(p *domain.Post) ports.PostView {
	comments := make([]ports.CommentView, len(p.Comments))
	for i, c := range p.Comments {
		comments[i] = ports.CommentView{
			ID:        c.ID,
			Author:    c.Author,
			AuthorID:  c.AuthorID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
	}
	return ports.PostView{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Author:      p.Author,
		Category:    p.Category,
		Tags:        p.Tags,
		Published:   p.Published,
		Status:      string(p.Status),
		ScheduledAt: p.ScheduledAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Comments:    comments,
	}
}
