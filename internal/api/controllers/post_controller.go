package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blogpress/internal/models/request_models"
	"blogpress/internal/services"
	"blogpress/pkg/middleware"
	"blogpress/pkg/utils"
)

type PostController struct {
	postService services.PostServiceInterface
}

func NewPostController(postService services.PostServiceInterface) *PostController {
	return &PostController{postService: postService}
}

// ListPosts godoc
// @Summary List posts
// @Description Newest first. q matches title or content, tag filters by tag.
// @Tags Posts
// @Produce json
// @Param q query string false "Search text"
// @Param tag query string false "Tag"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse
// @Router /posts [get]
func (p *PostController) ListPosts(c *gin.Context) {
	var query request_models.ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	list, err := p.postService.ListPosts(c.Request.Context(), query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, list, "Posts fetched successfully")
}

// GetPost godoc
// @Summary Get a post
// @Tags Posts
// @Param id path string true "Post ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /posts/{id} [get]
func (p *PostController) GetPost(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	post, err := p.postService.GetPostByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, post, "")
}

// RelatedPosts godoc
// @Summary Related posts
// @Tags Posts
// @Param id path string true "Post ID"
// @Param limit query int false "How many" default(3)
// @Success 200 {object} utils.APIResponse
// @Router /posts/{id}/related [get]
func (p *PostController) RelatedPosts(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit")
		return
	}
	posts, err := p.postService.RelatedPosts(c.Request.Context(), id, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, posts, "")
}

// ListPostsByAuthor godoc
// @Summary Posts by author
// @Tags Posts
// @Param id path string true "Author ID"
// @Success 200 {object} utils.APIResponse
// @Router /authors/{id}/posts [get]
func (p *PostController) ListPostsByAuthor(c *gin.Context) {
	authorID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	posts, err := p.postService.ListPostsByAuthor(c.Request.Context(), authorID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, posts, "")
}

// CreatePost godoc
// @Summary Create a post
// @Tags Posts
// @Security BearerAuth
// @Accept json
// @Param request body request_models.CreatePostRequest true "Post"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /posts [post]
func (p *PostController) CreatePost(c *gin.Context) {
	var req request_models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	session, _ := middleware.SessionFrom(c)

	created, err := p.postService.CreatePost(c.Request.Context(), session, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, created, "Post published successfully")
}

// UpdatePost godoc
// @Summary Update a post
// @Description Partial update; the slug never changes
// @Tags Posts
// @Security BearerAuth
// @Accept json
// @Param id path string true "Post ID"
// @Param request body request_models.UpdatePostRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /posts/{id} [put]
func (p *PostController) UpdatePost(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request_models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	session, _ := middleware.SessionFrom(c)

	post, err := p.postService.UpdatePost(c.Request.Context(), session, id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, post, "Post updated successfully")
}

// DeletePost godoc
// @Summary Delete a post
// @Tags Posts
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} utils.APIResponse
// @Router /posts/{id} [delete]
func (p *PostController) DeletePost(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	session, _ := middleware.SessionFrom(c)

	if err := p.postService.DeletePost(c.Request.Context(), session, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Post deleted successfully")
}
