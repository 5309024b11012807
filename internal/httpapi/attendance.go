package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classroll/internal/attendance"
)

type recordRequest struct {
	StudentID        uint64 `json:"student_id"`
	AttendanceStatus string `json:"attendance_status"`
}

func (r recordRequest) input() attendance.RecordInput {
	return attendance.RecordInput{StudentID: r.StudentID, AttendanceStatus: r.AttendanceStatus}
}

func (h *Handler) markAttendance(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rec, err := h.svc.Attendance.Mark(c.Request.Context(), req.input())
	h.observe("mark_attendance", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) getAttendance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.svc.Attendance.Get(c.Request.Context(), id)
	h.observe("get_attendance_record", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) updateAttendance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rec, err := h.svc.Attendance.Update(c.Request.Context(), id, req.input())
	h.observe("update_attendance_record", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) deleteAttendance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.svc.Attendance.Delete(c.Request.Context(), id)
	h.observe("delete_attendance_record", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listAttendance(c *gin.Context) {
	all, err := h.svc.Attendance.List(c.Request.Context())
	h.observe("list_attendance_records", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance_records": all})
}
