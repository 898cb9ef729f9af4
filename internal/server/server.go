package server

import (
	"context"
	"net/http"

	"pointledger/internal/config"
	"pointledger/internal/events"
	"pointledger/internal/point"

	"github.com/gin-gonic/gin"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

func New(cfg *config.Config, pointService point.Service, publisher *events.Publisher) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(corsMiddleware())

	pointHandler := point.NewHandler(pointService)

	p := router.Group("/point")
	{
		p.GET("/:id", pointHandler.GetPoint)
		p.GET("/:id/histories", pointHandler.GetHistories)
		p.PATCH("/:id/charge", pointHandler.Charge)
		p.PATCH("/:id/use", pointHandler.Use)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/queue-length", QueueLength(publisher))

	SetupSwagger(router)

	return &Server{
		router: router,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
