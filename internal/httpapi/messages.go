package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classroll/internal/attendance"
	"classroll/internal/auth"
	"classroll/internal/model"
)

type messageRequest struct {
	Content           string                   `json:"content"`
	MultimediaContent *model.MultimediaContent `json:"multimedia_content"`
}

// sendReminder uses the token subject as sender; anonymous callers send as
// the system.
func (h *Handler) sendReminder(c *gin.Context) {
	studentID, ok := pathID(c)
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sender, ok := auth.CallerID(c)
	if !ok {
		sender = attendance.SystemSender
	}
	msg, err := h.svc.Messages.SendReminder(c.Request.Context(), studentID, req.Content, req.MultimediaContent, sender)
	h.observe("send_reminder_to_student", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) getMessage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	msg, err := h.svc.Messages.Get(c.Request.Context(), id)
	h.observe("get_message", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) updateMessage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	caller, _ := auth.CallerID(c)
	msg, err := h.svc.Messages.Update(c.Request.Context(), caller, id, req.Content, req.MultimediaContent)
	h.observe("update_message", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) deleteMessage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.svc.Messages.Delete(c.Request.Context(), id)
	h.observe("delete_message", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listMessages(c *gin.Context) {
	all, err := h.svc.Messages.List(c.Request.Context())
	h.observe("list_messages", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": all})
}
