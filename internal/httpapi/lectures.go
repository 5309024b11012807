package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classroll/internal/attendance"
	"classroll/internal/model"
)

type lectureRequest struct {
	StudentID         uint64                   `json:"student_id"`
	LecturerID        uint64                   `json:"lecturer_id"`
	DateTime          uint64                   `json:"date_time"`
	Topic             string                   `json:"topic"`
	MultimediaContent *model.MultimediaContent `json:"multimedia_content"`
}

func (r lectureRequest) input() attendance.LectureInput {
	return attendance.LectureInput{
		StudentID:         r.StudentID,
		LecturerID:        r.LecturerID,
		DateTime:          r.DateTime,
		Topic:             r.Topic,
		MultimediaContent: r.MultimediaContent,
	}
}

func (h *Handler) scheduleLecture(c *gin.Context) {
	var req lectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	lec, err := h.svc.Lectures.Schedule(c.Request.Context(), req.input())
	h.observe("schedule_lecture", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lec)
}

func (h *Handler) getLecture(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	lec, err := h.svc.Lectures.Get(c.Request.Context(), id)
	h.observe("get_lecture", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lec)
}

func (h *Handler) updateLecture(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req lectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	lec, err := h.svc.Lectures.Update(c.Request.Context(), id, req.input())
	h.observe("update_lecture", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lec)
}

func (h *Handler) deleteLecture(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.svc.Lectures.Delete(c.Request.Context(), id)
	h.observe("delete_lecture", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listLectures(c *gin.Context) {
	all, err := h.svc.Lectures.List(c.Request.Context())
	h.observe("list_lectures", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lectures": all})
}
