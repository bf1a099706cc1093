package controllers

import (
	"github.com/gin-gonic/gin"

	"blogpress/internal/services"
	"blogpress/pkg/utils"
)

type AdminController struct {
	dashboard     services.DashboardService
	notifications services.NotificationServiceInterface
}

func NewAdminController(dashboard services.DashboardService, notifications services.NotificationServiceInterface) *AdminController {
	return &AdminController{dashboard: dashboard, notifications: notifications}
}

// GetDashboard godoc
// @Summary Admin dashboard
// @Tags Admin
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /admin/dashboard [get]
func (a *AdminController) GetDashboard(c *gin.Context) {
	report, err := a.dashboard.BuildDashboard(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "")
}

// ListNotifications godoc
// @Summary List outbox notifications
// @Tags Admin
// @Security BearerAuth
// @Param status query string false "pending, processing, delivered or failed"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Router /admin/notifications [get]
func (a *AdminController) ListNotifications(c *gin.Context) {
	page, pageSize, err := utils.ParsePagination(c, 20)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	items, total, err := a.notifications.ListTasks(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, pagedResponse{Items: items, Total: total, Page: page, PageSize: pageSize}, "")
}

// RetryNotification godoc
// @Summary Retry a failed notification
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} utils.APIResponse
// @Router /admin/notifications/{id}/retry [post]
func (a *AdminController) RetryNotification(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := a.notifications.Retry(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"id": id.String()}, "Notification queued for retry")
}
