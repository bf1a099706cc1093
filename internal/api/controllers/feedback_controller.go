package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogpress/internal/models/request_models"
	"blogpress/internal/models/response_models"
	"blogpress/internal/services"
	"blogpress/pkg/middleware"
	"blogpress/pkg/utils"
)

type FeedbackController struct {
	feedbackService services.FeedbackServiceInterface
}

func NewFeedbackController(feedbackService services.FeedbackServiceInterface) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

// SubmitFeedback godoc
// @Summary Submit feedback for an article
// @Description Rate an article 1-5. post_id may be the article id, its slug or its title.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body request_models.SubmitFeedbackRequest true "Feedback payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /feedback [post]
func (f *FeedbackController) SubmitFeedback(c *gin.Context) {
	var req request_models.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := f.feedbackService.SubmitFeedback(c.Request.Context(), services.FeedbackSubmission{
		ArticleReference: req.PostID,
		Name:             req.Name,
		Email:            req.Email,
		Rating:           req.Rating,
		Comment:          req.Comment,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	fb := result.Feedback
	utils.RespondCreated(c, response_models.FeedbackSubmissionResponse{
		Feedback: response_models.FeedbackResponse{
			ID:          fb.ID.String(),
			PostID:      fb.PostID.String(),
			Name:        fb.Name,
			Email:       fb.Email,
			Rating:      fb.Rating,
			Comment:     fb.Comment,
			Status:      fb.Status,
			SubmittedAt: fb.SubmittedAt,
		},
		NotificationQueued: result.NotificationQueued,
	}, "Thank you for your feedback!")
}

// ListFeedback godoc
// @Summary List feedback
// @Description Paginated feedback across all posts, newest first (admin)
// @Tags Admin
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse
// @Router /admin/feedback [get]
func (f *FeedbackController) ListFeedback(c *gin.Context) {
	page, pageSize, err := utils.ParsePagination(c, 20)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	items, total, err := f.feedbackService.ListFeedback(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, pagedResponse{Items: items, Total: total, Page: page, PageSize: pageSize}, "Feedback fetched successfully")
}

// ListFeedbackForPost godoc
// @Summary List feedback for one post
// @Description Visible to the post's author and admins
// @Tags Feedback
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /posts/{id}/feedback [get]
func (f *FeedbackController) ListFeedbackForPost(c *gin.Context) {
	postID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	session, _ := middleware.SessionFrom(c)

	items, err := f.feedbackService.ListFeedbackForPost(c.Request.Context(), session, postID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items, "Feedback fetched successfully")
}

// UpdateFeedbackStatus godoc
// @Summary Update feedback status
// @Tags Admin
// @Accept json
// @Param id path string true "Feedback ID"
// @Param request body request_models.UpdateFeedbackStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Router /admin/feedback/{id}/status [patch]
func (f *FeedbackController) UpdateFeedbackStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request_models.UpdateFeedbackStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Status must be one of new, reviewed, archived")
		return
	}

	if err := f.feedbackService.UpdateFeedbackStatus(c.Request.Context(), id, req.Status); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"id": id.String(), "status": req.Status}, "Feedback updated")
}
