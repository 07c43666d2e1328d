// internal/handlers/media.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopkit/catalog-backend/internal/services"
	"github.com/shopkit/catalog-backend/internal/utils"
)

type MediaHandler struct {
	mediaService *services.MediaService
}

func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// parseUploadForm reads the optional product_id and is_primary form
// fields shared by both upload endpoints.
func parseUploadForm(c *gin.Context) (*services.UploadMediaRequest, error) {
	req := &services.UploadMediaRequest{}

	if productIDStr := c.PostForm("product_id"); productIDStr != "" {
		productID, err := uuid.Parse(productIDStr)
		if err != nil {
			return nil, err
		}
		req.ProductID = &productID
	}

	if isPrimaryStr := c.PostForm("is_primary"); isPrimaryStr != "" {
		isPrimary, err := strconv.ParseBool(isPrimaryStr)
		if err != nil {
			return nil, err
		}
		req.IsPrimary = isPrimary
	}

	return req, nil
}

func (h *MediaHandler) respondUploadError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "product not found"):
		utils.NotFoundResponse(c, "Product")
	case strings.Contains(msg, "only image files are allowed"),
		strings.Contains(msg, "only video files are allowed"),
		strings.Contains(msg, "invalid image file"):
		utils.UnprocessableResponse(c, msg)
	case strings.Contains(msg, "exceeds maximum"),
		strings.Contains(msg, "not allowed"):
		utils.BadRequestResponse(c, msg, nil)
	case strings.Contains(msg, "already exists"):
		utils.ConflictResponse(c, msg)
	default:
		utils.InternalErrorResponse(c, msg)
	}
}

// POST /media/images
func (h *MediaHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", err.Error())
		return
	}
	defer file.Close()

	req, err := parseUploadForm(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid upload parameters", err.Error())
		return
	}

	media, err := h.mediaService.UploadImage(file, header, req)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Image uploaded successfully",
		"media":   media,
	})
}

// POST /media/videos
func (h *MediaHandler) UploadVideo(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", err.Error())
		return
	}
	defer file.Close()

	req, err := parseUploadForm(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid upload parameters", err.Error())
		return
	}

	media, err := h.mediaService.UploadVideo(file, header, req)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Video uploaded successfully",
		"media":   media,
	})
}

// GET /media
func (h *MediaHandler) GetMediaList(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var productID *uuid.UUID
	if productIDStr := c.Query("product_id"); productIDStr != "" {
		id, err := uuid.Parse(productIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid product ID", nil)
			return
		}
		productID = &id
	}

	media, total, err := h.mediaService.GetMediaList(params, productID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(media, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /media/:id
func (h *MediaHandler) GetMedia(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid media ID", nil)
		return
	}

	media, err := h.mediaService.GetMedia(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Media")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"media": media,
	})
}

// GET /media/:id/download
func (h *MediaHandler) DownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid media ID", nil)
		return
	}

	url, err := h.mediaService.DownloadURL(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Media")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"url": url,
	})
}

// GET /products/:id/media
func (h *MediaHandler) GetProductMedia(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	media, err := h.mediaService.GetProductMedia(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"media": media,
	})
}

// POST /media/:id/primary
func (h *MediaHandler) SetPrimary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid media ID", nil)
		return
	}

	media, err := h.mediaService.SetPrimary(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Media")
			return
		}
		if strings.Contains(err.Error(), "cannot set primary") {
			utils.UnprocessableResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Primary media updated successfully",
		"media":   media,
	})
}

// DELETE /media/:id
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid media ID", nil)
		return
	}

	if err := h.mediaService.DeleteMedia(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Media")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Media deleted successfully",
	})
}
