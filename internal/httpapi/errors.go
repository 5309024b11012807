package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classroll/internal/attendance"
	"classroll/internal/httpmiddleware"
)

func (h *Handler) observe(op string, err error) {
	h.ops.WithLabelValues(op, attendance.KindName(err)).Inc()
}

// writeError maps the error taxonomy onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	kind := attendance.KindName(err)
	var status int
	switch kind {
	case "not_found":
		status = http.StatusNotFound
	case "invalid_input":
		status = http.StatusBadRequest
	case "too_large":
		status = http.StatusRequestEntityTooLarge
	default:
		h.log.Error().Err(err).Str("request_id", httpmiddleware.GetRequestID(c)).Msg("operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "kind": kind})
		return
	}

	msg := err.Error()
	var ae *attendance.Error
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	c.JSON(status, gin.H{"error": msg, "kind": kind})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "kind": "invalid_input"})
}

func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "id must be a non-negative integer")
		return 0, false
	}
	return id, true
}
