package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/IceBJJ/training-attendance-api/config"
	"github.com/IceBJJ/training-attendance-api/internal/api/handler"
	"github.com/IceBJJ/training-attendance-api/internal/api/middleware"
	"github.com/IceBJJ/training-attendance-api/pkg/redis"
)

// 扫码接口限流参数：单 IP 每分钟 30 次，足够打卡场景且能挡住误触连扫
const (
	scanRateLimit  = 30
	scanRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(4 << 20)) // 4MB：花名册 Excel 上传需要余量
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "time": time.Now().UTC().Format(time.RFC3339)})
	})

	// ── 扫码端公开接口（兼容既有打卡页面，扁平 JSON）──
	r.POST("/scan", middleware.RateLimit(rdb, scanRateLimit, scanRateWindow), h.Scan.Scan)
	r.GET("/members/lookup", h.Member.Lookup)
	r.GET("/attendance", h.Attendance.ListAttendance)
	r.GET("/facilities", h.Facility.ListFacilities)
	r.GET("/locations", h.Facility.ListLocations)

	// ── 管理端接口（共享密钥）──
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AdminAuth(cfg.Admin.Secret))
	{
		members := admin.Group("/members")
		{
			members.GET("", h.Member.ListMembers)
			members.GET("/:id", h.Member.GetMember)
			members.POST("", h.Member.CreateMember)
			members.PUT("/:id", h.Member.UpdateMember)
			members.POST("/import", h.Member.ImportMembers)
		}

		facilities := admin.Group("/facilities")
		{
			facilities.GET("", h.Facility.ListAllFacilities)
			facilities.GET("/:id", h.Facility.GetFacility)
			facilities.POST("", h.Facility.CreateFacility)
			facilities.PUT("/:id", h.Facility.UpdateFacility)
		}

		locations := admin.Group("/locations")
		{
			locations.POST("", h.Facility.CreateLocation)
			locations.PUT("/:id", h.Facility.UpdateLocation)
		}

		reports := admin.Group("/reports")
		{
			reports.GET("/progress", h.Report.ListProgress)
			reports.GET("/progress/export", h.Report.ExportProgress)
			reports.GET("/members/:member_id/monthly", h.Report.MemberMonthly)
		}
	}

	return r
}
