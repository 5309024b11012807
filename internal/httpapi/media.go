package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classroll/internal/cloudinary"
)

// maxUploadBytes bounds multipart uploads.
const maxUploadBytes = 50 << 20

// uploadMedia stores a file and returns the URL to place in a lecture or
// message multimedia_content field.
func (h *Handler) uploadMedia(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage not configured"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	kind, err := cloudinary.ParseKind(c.PostForm("kind"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "file field required")
		return
	}
	defer file.Close()

	res, err := h.media.Upload(c.Request.Context(), kind, file, header.Filename)
	if err != nil {
		h.log.Error().Err(err).Str("kind", string(kind)).Msg("media upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "media upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"kind":               kind,
		"url":                res.SecureURL,
		"public_id":          res.PublicID,
		"multimedia_content": kind.Attach(nil, res.SecureURL),
	})
}
