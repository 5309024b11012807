package model

// MultimediaContent holds optional media links attached to a lecture or message.
type MultimediaContent struct {
	ImageURL *string `json:"image_url"`
	VideoURL *string `json:"video_url"`
	AudioURL *string `json:"audio_url"`
}

// Student represents a registered student.
type Student struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	ContactDetails    string `json:"contact_details"`
	AttendanceHistory string `json:"attendance_history"`
}

// Lecture is a scheduled lecture. StudentID and LecturerID are not checked
// against existing records.
type Lecture struct {
	ID                uint64             `json:"id"`
	StudentID         uint64             `json:"student_id"`
	LecturerID        uint64             `json:"lecturer_id"`
	DateTime          uint64             `json:"date_time"`
	Topic             string             `json:"topic"`
	MultimediaContent *MultimediaContent `json:"multimedia_content"`
}

// AttendanceRecord represents a single attendance entry for a student.
type AttendanceRecord struct {
	ID               uint64 `json:"id"`
	StudentID        uint64 `json:"student_id"`
	AttendanceStatus string `json:"attendance_status"`
}

// Message is a note sent to a student, usually a reminder.
type Message struct {
	ID                uint64             `json:"id"`
	SenderID          uint64             `json:"sender_id"`
	ReceiverID        uint64             `json:"receiver_id"`
	Content           string             `json:"content"`
	MultimediaContent *MultimediaContent `json:"multimedia_content"`
}
