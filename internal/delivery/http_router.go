package delivery

import (
	"net/http"
	"time"

	"adsignal/internal/delivery/middleware"
	"adsignal/pkg/logger"
	"adsignal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const banner = "adsignal: ads transparency signal server\n"

type HTTPRouter struct {
	rpc     *RPCHandler
	logger  *logger.Logger
	metrics *metrics.Metrics
	uiDir   string
}

func NewHTTPRouter(rpc *RPCHandler, logger *logger.Logger, metrics *metrics.Metrics) *HTTPRouter {
	return &HTTPRouter{
		rpc:     rpc,
		logger:  logger,
		metrics: metrics,
		uiDir:   "./ui",
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(60 * time.Second))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	router.Use(cors.New(config))

	// Plain-text banner
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, banner)
	})

	// Health endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// JSON-RPC tool protocol, single POST path
	router.POST("/mcp", r.rpc.Handle)

	// Widget shell assets
	router.Static("/ui", r.uiDir)

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
