package controllers

import (
	"github.com/gin-gonic/gin"

	"blogpress/internal/services"
	"blogpress/pkg/utils"
)

type TagController struct {
	tagService services.TagServiceInterface
}

func NewTagController(tagService services.TagServiceInterface) *TagController {
	return &TagController{tagService: tagService}
}

// ListTags godoc
// @Summary List tags
// @Description Distinct post tags with post counts
// @Tags Tags
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /tags [get]
func (t *TagController) ListTags(c *gin.Context) {
	tags, err := t.tagService.ListTags(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, tags, "Tags fetched successfully")
}
