package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-rituals/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

const errInvalidDateMessage = "invalid date format, expected YYYY-MM-DD"

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDependencies struct {
	HabitHandler  *HabitHandler
	EntryHandler  *EntryHandler
	WeeklyHandler *WeeklyHandler
	StatsHandler  *StatsHandler
	DB            Pinger
	Redis         *redis.Client
	Gatherer      prometheus.Gatherer
	RateLimit     int
	RateWindow    time.Duration
	StartTime     time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateWindow))
	}

	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		dbStatus := "disabled"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		deps.HabitHandler.RegisterRoutes(apiV1)
		deps.EntryHandler.RegisterRoutes(apiV1)
		deps.WeeklyHandler.RegisterRoutes(apiV1)
		deps.StatsHandler.RegisterRoutes(apiV1)
	}

	return router
}

func requireDateParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !domain.IsValidDate(c.Param(name)) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errInvalidDateMessage})
			return
		}
		c.Next()
	}
}

func optionalDateValid(date string) bool {
	return date == "" || domain.IsValidDate(date)
}
