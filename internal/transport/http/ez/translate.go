package ez

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gorm-users/internal/core/database"
	resp "go-gin-gorm-users/internal/transport/http/response"
)

// Fail 统一错误映射：数据库错误和未知错误完整记日志，对外只给通用信息
func Fail(c *gin.Context, l *zap.Logger, err error) {
	_ = c.Error(err)
	path := zap.String("path", c.Request.URL.Path)

	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Code >= http.StatusInternalServerError {
			l.Error("request failed", zap.Int("status", ae.Code), zap.String("msg", ae.Error()), zap.NamedError("cause", ae.Err), path)
		} else {
			l.Warn("request rejected", zap.Int("status", ae.Code), zap.String("msg", ae.Error()), path)
		}
		body := resp.Error(ae.Code, ae.Msg)
		if ae.Details != nil {
			body = body.WithDetails(ae.Details)
		}
		c.AbortWithStatusJSON(ae.Code, body)
		return
	}

	// 请求截止时间到了：store 查询被取消，按超时返回
	if errors.Is(err, context.DeadlineExceeded) {
		l.Warn("request timed out", zap.Error(err), path)
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, resp.Error(http.StatusGatewayTimeout, ""))
		return
	}

	var oe *database.OpError
	if errors.As(err, &oe) {
		l.Error("database error", zap.String("op", oe.Op), zap.Error(oe.Err), path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, resp.MsgDatabaseError))
		return
	}

	l.Error("unhandled error", zap.Error(err), zap.Stack("stack"), path)
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, resp.MsgInternalError))
}
