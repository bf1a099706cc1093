package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogpress/internal/services"
	"blogpress/pkg/middleware"
	"blogpress/pkg/utils"
)

type UploadController struct {
	uploadService services.UploadServiceInterface
	maxBytes      int64
}

func NewUploadController(uploadService services.UploadServiceInterface, maxBytes int64) *UploadController {
	return &UploadController{uploadService: uploadService, maxBytes: maxBytes}
}

// UploadCover godoc
// @Summary Upload a cover image
// @Description Multipart field "file"; images only, at most 5 MB
// @Tags Uploads
// @Security BearerAuth
// @Accept multipart/form-data
// @Param file formData file true "Image"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /uploads/cover [post]
func (u *UploadController) UploadCover(c *gin.Context) {
	// leave room for the multipart envelope around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, u.maxBytes+(1<<20))

	header, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "A file field is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Could not read upload")
		return
	}
	defer file.Close()

	session, _ := middleware.SessionFrom(c)
	url, err := u.uploadService.UploadCoverImage(c.Request.Context(), session, services.CoverUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, gin.H{"url": url}, "Image uploaded")
}
