package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/pkg/redis"
)

// RateLimit 基于 Redis 计数窗口的速率限制中间件
// 扫码端为无认证公开接口，按客户端 IP + 路由限流
// limit: 窗口内允许的最大请求数
// window: 窗口时长
// rdb 为 nil（Redis 不可用降级运行）时放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, dto.ScanErrorResponse{Detail: "Too many requests, slow down."})
			c.Abort()
			return
		}

		c.Next()
	}
}
