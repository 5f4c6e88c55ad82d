package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/IceBJJ/training-attendance-api/pkg/response"
)

// AdminAuth 管理端共享密钥中间件
// 校验 X-Admin-Secret 请求头与配置的管理密钥一致（常数时间比较）
// 本服务无账号体系，管理面板为内部工具，单一共享密钥即可
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Admin-Secret")
		if provided == "" {
			response.Unauthorized(c, 10002, "缺少管理密钥")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			response.Unauthorized(c, 10002, "管理密钥无效")
			c.Abort()
			return
		}

		c.Next()
	}
}
