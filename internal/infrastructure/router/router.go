package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"asistencia-service/internal/interface/handler"
	"asistencia-service/pkg/logger"
	"asistencia-service/pkg/metrics"
)

// Options configures the HTTP engine
type Options struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	Gatherer       prometheus.Gatherer
}

// NewRouter builds the gin engine with the attendee API, health and metrics
func NewRouter(opts Options, h *handler.Handler, m *metrics.Metrics, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(handler.RequestID(), handler.AccessLog(log, m), handler.Recovery(log))
	_ = r.SetTrustedProxies(nil)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", handler.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", handler.RequestIDHeader},
		AllowCredentials: true,
	}))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "API de asistencia funcionando") })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "Healthy") })
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/asistentes", handler.BodyLimit(opts.MaxBodyBytes))
	h.RegisterRoutes(api)

	return r
}
