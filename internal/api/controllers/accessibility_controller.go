package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogpress/internal/models/request_models"
	"blogpress/internal/services"
	"blogpress/pkg/middleware"
	"blogpress/pkg/utils"
)

type AccessibilityController struct {
	service services.AccessibilityServiceInterface
}

func NewAccessibilityController(service services.AccessibilityServiceInterface) *AccessibilityController {
	return &AccessibilityController{service: service}
}

// LogAction godoc
// @Summary Record an accessibility action
// @Description Recorded only for signed-in readers; anonymous calls succeed with logged=false
// @Tags Accessibility
// @Accept json
// @Param request body request_models.AccessibilityLogRequest true "Action"
// @Success 200 {object} utils.APIResponse
// @Router /accessibility/logs [post]
func (a *AccessibilityController) LogAction(c *gin.Context) {
	var req request_models.AccessibilityLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	session, _ := middleware.SessionFrom(c)
	logged := a.service.LogAction(c.Request.Context(), session, req)
	utils.RespondSuccess(c, gin.H{"logged": logged}, "")
}
