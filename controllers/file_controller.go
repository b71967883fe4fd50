package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wepodcaster-backend/services"
)

const maxImageBytes = 5 << 20

type FileController struct {
	podcasts *services.PodcastService
}

func NewFileController(podcasts *services.PodcastService) *FileController {
	return &FileController{podcasts: podcasts}
}

// POST /api/files/upload-url
func (fc *FileController) GenerateUploadURL(c *gin.Context) {
	target, err := fc.podcasts.GenerateUploadURL(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

// GET /api/files/url?storage_id=
func (fc *FileController) GetURL(c *gin.Context) {
	url, err := fc.podcasts.GetURL(c.Request.Context(), c.Query("storage_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// POST /api/files/image (multipart, field "file")
func (fc *FileController) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu file ảnh"})
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Ảnh vượt quá 5MB"})
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Ảnh vượt quá 5MB"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	stored, err := fc.podcasts.UploadThumbnail(c.Request.Context(), header.Filename, data, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}
