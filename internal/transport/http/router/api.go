package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-gorm-users/internal/core/server"
	mdw "go-gin-gorm-users/internal/transport/http/middleware"
	resp "go-gin-gorm-users/internal/transport/http/response"
)

const RootMessage = "Users API connected to the database!"

type Options struct {
	Mode           string
	ServiceName    string
	AllowOrigins   []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	MaxConcurrency int64
	Tracing        bool
}

func (o *Options) defaults() {
	if o.ServiceName == "" {
		o.ServiceName = "users-api"
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = 300
	}
}

func NewAPIEngine(l *zap.Logger, db *gorm.DB, o Options, mods ...APIModule) *gin.Engine {
	o.defaults()
	r := server.NewRouter(server.Options{Mode: o.Mode, AllowOrigins: o.AllowOrigins})

	if o.Tracing {
		r.Use(otelgin.Middleware(o.ServiceName))
	}
	// 中间件：access log 在 recovery 外层，panic 也能记到 500
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.Recovery(l),
		mdw.ConcurrencyLimit(o.MaxConcurrency),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.RequestTimeout),
	)

	r.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, resp.Error(http.StatusNotFound, ""))
	})
	r.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, resp.Error(http.StatusMethodNotAllowed, ""))
	})

	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, resp.Message{Message: RootMessage}) })
	r.GET("/health", health(l, db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	mountAll(&r.RouterGroup, mods)
	return r
}

// health 检查连接池可用
func health(l *zap.Logger, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			l.Error("health check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(http.StatusServiceUnavailable, resp.MsgDatabaseError))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	}
}
