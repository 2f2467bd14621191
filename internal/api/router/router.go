package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/config"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/api/handler"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/api/middleware"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/jwt"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/redis"
)

// Setup builds the Gin engine with all routes wired.
//
// Role gating at the route level covers the coarse cases; ownership
// checks (a teacher editing someone else's session) live in the
// service layer.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, logger))
	{
		// calendar views: every authenticated role may look
		calendar := v1.Group("/calendar")
		{
			calendar.GET("/week", h.Calendar.GetWeekView)
			calendar.GET("/day", h.Calendar.GetDayView)
		}
		v1.GET("/permissions", h.Calendar.GetPermissions)

		// schedule CRUD: writes need teacher or admin, deletion admin
		schedules := v1.Group("/schedules")
		{
			schedules.GET("", h.Schedule.List)
			schedules.GET("/search", h.Schedule.Search)
			schedules.POST("", middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin), h.Schedule.Create)
			schedules.PUT("/:id", middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin), h.Schedule.Update)
			schedules.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Schedule.Delete)
		}

		// generation: admin only, rate limited per client
		generation := v1.Group("/generation")
		generation.Use(middleware.RoleAuth(model.RoleAdmin))
		generation.Use(middleware.RateLimit(rdb, logger, "generation", 10, time.Minute))
		{
			generation.GET("/groups", h.Generation.ListGroupOptions)
			generation.POST("/runs", h.Generation.Start)
			generation.GET("/runs/:id", h.Generation.Get)
			generation.POST("/runs/:id/cancel", h.Generation.Cancel)
			generation.GET("/runs/:id/export", h.Export.GenerationCSV)
			generation.POST("/weekly", h.Generation.GenerateWeekly)
		}

		// week exports: any authenticated role
		export := v1.Group("/export")
		{
			export.GET("/week.xlsx", h.Export.WeekXLSX)
			export.GET("/week.ics", h.Export.WeekICS)
		}
	}

	return r
}
