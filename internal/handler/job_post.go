package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/repository"
)

const (
	descriptionMinLen = 50
	descriptionMaxLen = 5000
)

// JobPostHandler serves job posts plus their likes and comments.
type JobPostHandler struct {
	Posts *repository.JobPostRepo
}

func NewJobPostHandler(r *repository.JobPostRepo) *JobPostHandler {
	return &JobPostHandler{Posts: r}
}

type createPostReq struct {
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls"`
}

type commentReq struct {
	Content string `json:"content"`
}

// validImageURL requires an absolute http(s) URL with a host.
func validImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Create publishes a post under the caller's username.
func (h *JobPostHandler) Create(c echo.Context) error {
	username, err := authUsername(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createPostReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Description = strings.TrimSpace(req.Description)
	if n := len(req.Description); n < descriptionMinLen || n > descriptionMaxLen {
		return Fail(c, http.StatusBadRequest, "description must be between 50 and 5000 characters")
	}
	for _, raw := range req.ImageURLs {
		if !validImageURL(raw) {
			return Fail(c, http.StatusBadRequest, "image URLs must be absolute http(s) URLs")
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Posts.Create(ctx, username, req.Description, req.ImageURLs)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// Get returns a post by its public id.
func (h *JobPostHandler) Get(c echo.Context) error {
	postID := c.Param("id")
	if postID == "" {
		return Fail(c, http.StatusBadRequest, "post id is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Posts.GetByPostID(ctx, postID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Like records the caller's like.  Liking twice is a 400.
func (h *JobPostHandler) Like(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	postID := c.Param("id")
	if postID == "" {
		return Fail(c, http.StatusBadRequest, "post id is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Posts.Like(ctx, postID, userID); err != nil {
		return failFrom(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// AddComment appends the caller's comment to a post.
func (h *JobPostHandler) AddComment(c echo.Context) error {
	username, err := authUsername(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	postID := c.Param("id")
	if postID == "" {
		return Fail(c, http.StatusBadRequest, "post id is required")
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return Fail(c, http.StatusBadRequest, "content is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	comment, err := h.Posts.AddComment(ctx, postID, username, req.Content)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// Comments lists a post's comments in insertion order.
func (h *JobPostHandler) Comments(c echo.Context) error {
	postID := c.Param("id")
	if postID == "" {
		return Fail(c, http.StatusBadRequest, "post id is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	comments, err := h.Posts.Comments(ctx, postID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// Delete removes the caller's own post together with its likes and
// comments.
func (h *JobPostHandler) Delete(c echo.Context) error {
	username, err := authUsername(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	postID := c.Param("id")
	if postID == "" {
		return Fail(c, http.StatusBadRequest, "post id is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Posts.DeleteByUser(ctx, postID, username); err != nil {
		return failFrom(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Search filters posts by keyword and creation date range.  Dates are
// "2006-01-02" and inclusive.
func (h *JobPostHandler) Search(c echo.Context) error {
	q := repository.JobPostSearchQuery{
		Keyword: strings.TrimSpace(c.QueryParam("keyword")),
		Page:    0,
		Size:    searchDefaultSize,
	}
	if s := c.QueryParam("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return Fail(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		q.From = t
	}
	if s := c.QueryParam("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return Fail(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		// Inclusive upper bound: everything before the next day.
		q.To = t.AddDate(0, 0, 1)
	}
	if s := c.QueryParam("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Fail(c, http.StatusBadRequest, "page must be a non-negative integer")
		}
		q.Page = n
	}
	if s := c.QueryParam("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Fail(c, http.StatusBadRequest, "size must be a positive integer")
		}
		q.Size = n
	}
	if q.Size > searchMaxSize {
		q.Size = searchMaxSize
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	posts, total, err := h.Posts.Search(ctx, q)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts": posts,
		"page":  q.Page,
		"size":  q.Size,
		"total": total,
	})
}
