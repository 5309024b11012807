// Package httpapi exposes the attendance operations as a JSON API.
package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"classroll/internal/attendance"
	"classroll/internal/auth"
	"classroll/internal/cloudinary"
	"classroll/internal/httpmiddleware"
)

// Uploader stores a media file and returns where it lives.
type Uploader interface {
	Upload(ctx context.Context, kind cloudinary.Kind, data io.Reader, filename string) (*cloudinary.UploadResult, error)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// Options wires the router.
type Options struct {
	Service         *attendance.Service
	Media           Uploader // nil disables /v1/media
	Logger          zerolog.Logger
	Registry        *prometheus.Registry
	SigningKey      string
	Issuer          string
	RateLimitPerMin int
	Checks          map[string]HealthCheck
}

// Handler serves the API.
type Handler struct {
	svc   *attendance.Service
	media Uploader
	log   zerolog.Logger
	ops   *prometheus.CounterVec
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(opts Options) *gin.Engine {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	h := &Handler{
		svc:   opts.Service,
		media: opts.Media,
		log:   opts.Logger,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classroll",
			Name:      "operations_total",
			Help:      "Entity operations by name and outcome.",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(h.ops)
	metrics := httpmiddleware.NewMetrics(reg)

	r := gin.New()
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.Recovery(opts.Logger))
	r.Use(httpmiddleware.Logger(opts.Logger, "/healthz", "/metrics"))
	r.Use(metrics.GinMiddleware())
	r.Use(httpmiddleware.CORS())
	r.Use(httpmiddleware.SecurityHeaders())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/healthz", healthz(opts.Checks))

	// the limiter sits between parsing and rejection so callers sending bad
	// tokens are still limited, by IP
	v1 := r.Group("/v1",
		auth.Bearer(opts.SigningKey, opts.Issuer),
		httpmiddleware.NewSimpleTokenBucket(opts.RateLimitPerMin, opts.RateLimitPerMin).GinMiddleware(),
		auth.Reject(),
	)

	v1.POST("/students", h.registerStudent)
	v1.GET("/students", h.listStudents)
	v1.GET("/students/:id", h.getStudent)
	v1.PUT("/students/:id", h.updateStudent)
	v1.DELETE("/students/:id", h.deleteStudent)
	v1.POST("/students/:id/reminders", h.sendReminder)

	v1.POST("/lectures", h.scheduleLecture)
	v1.GET("/lectures", h.listLectures)
	v1.GET("/lectures/:id", h.getLecture)
	v1.PUT("/lectures/:id", h.updateLecture)
	v1.DELETE("/lectures/:id", h.deleteLecture)

	v1.POST("/attendance", h.markAttendance)
	v1.GET("/attendance", h.listAttendance)
	v1.GET("/attendance/:id", h.getAttendance)
	v1.PUT("/attendance/:id", h.updateAttendance)
	v1.DELETE("/attendance/:id", h.deleteAttendance)

	v1.GET("/messages", h.listMessages)
	v1.GET("/messages/:id", h.getMessage)
	v1.PUT("/messages/:id", auth.Require(), h.updateMessage)
	v1.DELETE("/messages/:id", h.deleteMessage)

	v1.POST("/media", h.uploadMedia)

	return r
}

func healthz(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "ok"}
		for name, check := range checks {
			ok := check(c.Request.Context())
			body[name] = ok
			if !ok {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}
		c.JSON(status, body)
	}
}
