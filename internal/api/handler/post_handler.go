package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/escola-conecta/blog-api/internal/core/ports"
)

// PostHandler handles HTTP requests for posts and their comments.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create stores a new post (teacher or admin).
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post details"
// @Success      201   {object}  ports.PostView
// @Failure      403   {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	v, err := requireViewer(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.service.Create(c.Request().Context(), ports.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		Tags:        req.Tags,
		Published:   req.Published,
		Status:      req.Status,
		ScheduledAt: req.ScheduledAt,
	}, v.Name)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusCreated, view)
}

// List returns the public listing: published posts only.
//
// @Summary      List published posts
// @Tags         posts
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (1-100)"
// @Success      200    {object}  ports.PostPage
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, limit := pagination(c)
	result, err := h.service.FindAll(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, result)
}

// ListAll returns drafts and published posts plus the caller's own
// private posts (teacher or admin).
//
// @Summary      List all posts including drafts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (1-100)"
// @Success      200    {object}  ports.PostPage
// @Failure      403    {object}  map[string]string
// @Router       /posts/all [get]
func (h *PostHandler) ListAll(c echo.Context) error {
	v, err := requireViewer(c)
	if err != nil {
		return err
	}

	page, limit := pagination(c)
	result, err := h.service.FindAllForStaff(c.Request().Context(), page, limit, v)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, result)
}

// Search matches published posts by keyword across title, content and tags.
//
// @Summary      Search published posts
// @Tags         posts
// @Produce      json
// @Param        query  query     string  true   "Search term"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (1-100)"
// @Success      200    {object}  ports.PostPage
// @Router       /posts/search [get]
func (h *PostHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	if len(query) > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, "query must be at most 100 characters")
	}

	page, limit := pagination(c)
	result, err := h.service.Search(c.Request().Context(), query, page, limit)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, result)
}

// Get returns a single post, subject to the visibility policy.
//
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Param        id  path      string  true  "Post id"
// @Success      200  {object}  ports.PostView
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	view, err := h.service.FindOne(c.Request().Context(), c.Param("id"), viewer(c))
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, view)
}

// Update applies a partial post update (teacher or admin).
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "Fields to update"
// @Success      200   {object}  ports.PostView
// @Failure      404   {object}  map[string]string
// @Router       /posts/{id} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	v, err := requireViewer(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		Tags:        req.Tags,
		Published:   req.Published,
		Status:      req.Status,
		ScheduledAt: req.ScheduledAt,
	}, v.Name)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, view)
}

// Delete removes a post (teacher or admin).
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id  path  string  true  "Post id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddComment appends a comment to a post (any authenticated user).
//
// @Summary      Add a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Post id"
// @Param        body  body      commentRequest  true  "Comment content"
// @Success      201   {object}  ports.PostView
// @Failure      404   {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *PostHandler) AddComment(c echo.Context) error {
	v, err := requireViewer(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.service.AddComment(c.Request().Context(), c.Param("id"), req.Content, v)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusCreated, view)
}

// UpdateComment edits a comment (owner or admin).
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string          true  "Post id"
// @Param        commentId  path      string          true  "Comment id"
// @Param        body       body      commentRequest  true  "New content"
// @Success      200        {object}  ports.PostView
// @Failure      403        {object}  map[string]string
// @Router       /posts/{id}/comments/{commentId} [patch]
func (h *PostHandler) UpdateComment(c echo.Context) error {
	v, err := requireViewer(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.service.UpdateComment(c.Request().Context(), c.Param("id"), c.Param("commentId"), req.Content, v)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, view)
}

// DeleteComment removes a comment (owner, teacher or admin).
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "Post id"
// @Param        commentId  path      string  true  "Comment id"
// @Success      200        {object}  ports.PostView
// @Failure      403        {object}  map[string]string
// @Router       /posts/{id}/comments/{commentId} [delete]
func (h *PostHandler) DeleteComment(c echo.Context) error {
	v, err := requireViewer(c)
	if err != nil {
		return err
	}

	view, err := h.service.DeleteComment(c.Request().Context(), c.Param("id"), c.Param("commentId"), v)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, view)
}

// pagination parses page/limit query parameters; the service clamps them.
func pagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}
