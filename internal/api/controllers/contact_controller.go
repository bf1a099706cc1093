package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogpress/internal/config"
	"blogpress/internal/models/request_models"
	"blogpress/internal/models/response_models"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
	"blogpress/pkg/utils"
)

type ContactController struct {
	contactService services.ContactServiceInterface
	mailer         services.IMailService
	inbox          string
	logger         logging.Logger
}

func NewContactController(
	contactService services.ContactServiceInterface,
	mailer services.IMailService,
	cfg config.NotificationConfig,
	logger logging.Logger,
) *ContactController {
	return &ContactController{contactService: contactService, mailer: mailer, inbox: cfg.ContactInbox, logger: logger}
}

// SubmitContact godoc
// @Summary Send a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body request_models.ContactRequest true "Contact form"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /contact [post]
func (ct *ContactController) SubmitContact(c *gin.Context) {
	var req request_models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := ct.contactService.SubmitContactMessage(c.Request.Context(), services.ContactEmail{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, response_models.ContactSubmissionResponse{
		ID:                 result.Message.ID.String(),
		NotificationQueued: result.NotificationQueued,
	}, "Message sent! We'll get back to you soon.")
}

// ListContactMessages godoc
// @Summary List contact messages (admin)
// @Tags Admin
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Router /admin/contact-messages [get]
func (ct *ContactController) ListContactMessages(c *gin.Context) {
	page, pageSize, err := utils.ParsePagination(c, 20)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	items, total, err := ct.contactService.ListContactMessages(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, pagedResponse{Items: items, Total: total, Page: page, PageSize: pageSize}, "Contact messages fetched successfully")
}

// SendContactEmail godoc
// @Summary Contact email function
// @Description Sends a contact form submission to the site inbox. Uses the plain {success}/{error} contract instead of the API envelope.
// @Tags Functions
// @Accept json
// @Produce json
// @Param request body request_models.ContactRequest true "Contact form"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /functions/send-contact-email [post]
func (ct *ContactController) SendContactEmail(c *gin.Context) {
	var req request_models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ct.logger.WithError(err).Warn("contact email: unreadable body")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process contact form submission"})
		return
	}
	if blank(req.Name) || blank(req.Email) || blank(req.Subject) || blank(req.Message) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if ct.inbox == "" {
		ct.logger.Error("contact email: no inbox configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process contact form submission"})
		return
	}

	_, err := ct.mailer.SendContactNotification(c.Request.Context(), ct.inbox, services.ContactEmail{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		ct.logger.WithError(err).Error("contact email: send failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process contact form submission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
