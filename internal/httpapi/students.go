package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classroll/internal/attendance"
)

type studentRequest struct {
	Name              string `json:"name"`
	ContactDetails    string `json:"contact_details"`
	AttendanceHistory string `json:"attendance_history"`
}

func (r studentRequest) input() attendance.StudentInput {
	return attendance.StudentInput{
		Name:              r.Name,
		ContactDetails:    r.ContactDetails,
		AttendanceHistory: r.AttendanceHistory,
	}
}

func (h *Handler) registerStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	st, err := h.svc.Students.Register(c.Request.Context(), req.input())
	h.observe("register_student", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) getStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	st, err := h.svc.Students.Get(c.Request.Context(), id)
	h.observe("get_student", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) updateStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	st, err := h.svc.Students.Update(c.Request.Context(), id, req.input())
	h.observe("update_student", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) deleteStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.svc.Students.Delete(c.Request.Context(), id)
	h.observe("delete_student", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listStudents(c *gin.Context) {
	all, err := h.svc.Students.List(c.Request.Context())
	h.observe("list_students", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": all})
}
