package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroll/internal/attendance"
	"classroll/internal/auth"
	"classroll/internal/cloudinary"
	"classroll/internal/model"
	"classroll/internal/store"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "classroll-test"
)

type fakeUploader struct {
	gotKind cloudinary.Kind
	gotName string
	gotBody string
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, kind cloudinary.Kind, data io.Reader, filename string) (*cloudinary.UploadResult, error) {
	f.gotKind = kind
	f.gotName = filename
	b, _ := io.ReadAll(data)
	f.gotBody = string(b)
	if f.err != nil {
		return nil, f.err
	}
	return &cloudinary.UploadResult{PublicID: "classroll/abc", SecureURL: "https://cdn.example/abc.png"}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, media Uploader) *gin.Engine {
	t.Helper()
	svc := attendance.NewService(attendance.NewStores(store.NewMemory(), 0))
	return NewRouter(Options{
		Service:    svc,
		Media:      media,
		Logger:     zerolog.Nop(),
		SigningKey: testKey,
		Issuer:     testIssuer,
	})
}

func do(t *testing.T, r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, caller uint64) string {
	t.Helper()
	tok, err := auth.Issue(caller, "lecturer", testIssuer, testKey, time.Hour)
	require.NoError(t, err)
	return tok.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func TestStudentLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, http.MethodPost, "/v1/students", `{"name":"Ann","contact_details":"ann@x","attendance_history":""}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	st := decode[model.Student](t, w)
	assert.Equal(t, uint64(1), st.ID)
	assert.Equal(t, "Ann", st.Name)

	w = do(t, r, http.MethodGet, "/v1/students/1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, st, decode[model.Student](t, w))

	w = do(t, r, http.MethodPut, "/v1/students/1", `{"name":"Ann B","contact_details":"ann@y"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ann B", decode[model.Student](t, w).Name)

	w = do(t, r, http.MethodGet, "/v1/students", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string][]model.Student](t, w)
	require.Len(t, list["students"], 1)

	w = do(t, r, http.MethodDelete, "/v1/students/1", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/v1/students/1", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	eb := decode[errorBody](t, w)
	assert.Equal(t, "not_found", eb.Kind)
	assert.Equal(t, "Student with id=1 not found", eb.Error)
}

func TestErrorMapping(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, http.MethodPost, "/v1/students", `{"name":""}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	eb := decode[errorBody](t, w)
	assert.Equal(t, "invalid_input", eb.Kind)
	assert.Equal(t, "Name cannot be empty", eb.Error)

	w = do(t, r, http.MethodPost, "/v1/students", `{"name":`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/v1/students/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, "/v1/lectures/42", `{"topic":"Go"}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	big := strings.Repeat("x", 3000)
	w = do(t, r, http.MethodPost, "/v1/students", `{"name":"`+big+`"}`, "")
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "too_large", decode[errorBody](t, w).Kind)

	// the rejected create did not consume an id
	w = do(t, r, http.MethodPost, "/v1/students", `{"name":"Bo"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint64(1), decode[model.Student](t, w).ID)
}

func TestLecturesAndAttendance(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, http.MethodPost, "/v1/lectures", `{"student_id":7,"lecturer_id":3,"date_time":1700000000,"topic":"Rust","multimedia_content":{"image_url":"a.png"}}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	lec := decode[model.Lecture](t, w)
	assert.Equal(t, "Rust", lec.Topic)
	require.NotNil(t, lec.MultimediaContent)
	require.NotNil(t, lec.MultimediaContent.ImageURL)
	assert.Equal(t, "a.png", *lec.MultimediaContent.ImageURL)
	assert.Nil(t, lec.MultimediaContent.VideoURL)

	w = do(t, r, http.MethodPost, "/v1/lectures", `{"topic":""}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/v1/attendance", `{"student_id":7,"attendance_status":"present"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	rec := decode[model.AttendanceRecord](t, w)
	assert.Equal(t, uint64(2), rec.ID, "ids are shared across entity kinds")

	w = do(t, r, http.MethodPut, "/v1/attendance/2", `{"student_id":7,"attendance_status":"late"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "late", decode[model.AttendanceRecord](t, w).AttendanceStatus)

	w = do(t, r, http.MethodGet, "/v1/attendance", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]model.AttendanceRecord](t, w)["attendance_records"], 1)

	w = do(t, r, http.MethodDelete, "/v1/lectures/1", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodDelete, "/v1/lectures/1", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemindersAndMessageEdits(t *testing.T) {
	r := newTestRouter(t, nil)
	do(t, r, http.MethodPost, "/v1/students", `{"name":"Ann"}`, "")

	w := do(t, r, http.MethodPost, "/v1/students/1/reminders", `{"content":"Exam tomorrow"}`, tokenFor(t, 5))
	require.Equal(t, http.StatusCreated, w.Code)
	msg := decode[model.Message](t, w)
	assert.Equal(t, uint64(5), msg.SenderID)
	assert.Equal(t, uint64(1), msg.ReceiverID)

	w = do(t, r, http.MethodPost, "/v1/students/1/reminders", `{"content":"ping"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, attendance.SystemSender, decode[model.Message](t, w).SenderID)

	w = do(t, r, http.MethodPost, "/v1/students/99/reminders", `{"content":""}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	path := "/v1/messages/" + jsonID(msg.ID)

	w = do(t, r, http.MethodPut, path, `{"content":"Exam moved"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPut, path, `{"content":"Exam moved"}`, tokenFor(t, 6))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, path, `{"content":"Exam moved"}`, tokenFor(t, 5))
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[model.Message](t, w)
	assert.Equal(t, "Exam moved", updated.Content)
	assert.Equal(t, msg.SenderID, updated.SenderID)

	w = do(t, r, http.MethodGet, "/v1/messages", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]model.Message](t, w)["messages"], 2)

	w = do(t, r, http.MethodDelete, path, "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidTokenRejected(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(t, r, http.MethodGet, "/v1/students", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInvalidTokensAreRateLimited(t *testing.T) {
	svc := attendance.NewService(attendance.NewStores(store.NewMemory(), 0))
	r := NewRouter(Options{
		Service:         svc,
		Logger:          zerolog.Nop(),
		SigningKey:      testKey,
		Issuer:          testIssuer,
		RateLimitPerMin: 1,
	})

	w := do(t, r, http.MethodGet, "/v1/students", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/v1/students", "", "still-not-a-jwt")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestMediaUpload(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		r := newTestRouter(t, nil)
		w := do(t, r, http.MethodPost, "/v1/media", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("uploads", func(t *testing.T) {
		up := &fakeUploader{}
		r := newTestRouter(t, up)
		w := postMedia(t, r, "image", "slide.png", "PNGDATA")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			URL               string                  `json:"url"`
			Kind              string                  `json:"kind"`
			MultimediaContent model.MultimediaContent `json:"multimedia_content"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "https://cdn.example/abc.png", body.URL)
		assert.Equal(t, "image", body.Kind)
		require.NotNil(t, body.MultimediaContent.ImageURL)
		assert.Equal(t, body.URL, *body.MultimediaContent.ImageURL)
		assert.Equal(t, cloudinary.KindImage, up.gotKind)
		assert.Equal(t, "slide.png", up.gotName)
		assert.Equal(t, "PNGDATA", up.gotBody)
	})

	t.Run("bad kind", func(t *testing.T) {
		r := newTestRouter(t, &fakeUploader{})
		w := postMedia(t, r, "pdf", "a.pdf", "x")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		r := newTestRouter(t, &fakeUploader{err: errors.New("boom")})
		w := postMedia(t, r, "audio", "a.mp3", "x")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, nil)
	do(t, r, http.MethodPost, "/v1/students", `{"name":"Ann"}`, "")

	w := do(t, r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `classroll_operations_total{op="register_student",result="ok"} 1`)
}

func TestHealthDegraded(t *testing.T) {
	svc := attendance.NewService(attendance.NewStores(store.NewMemory(), 0))
	r := NewRouter(Options{
		Service: svc,
		Logger:  zerolog.Nop(),
		Checks: map[string]HealthCheck{
			"store": func(context.Context) bool { return false },
		},
	})
	w := do(t, r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["store"])
}

func postMedia(t *testing.T, r http.Handler, kind, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("kind", kind))
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonID(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
