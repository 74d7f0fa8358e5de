package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tesis-hub/backend/config"
	"tesis-hub/backend/internal/api/handler"
	"tesis-hub/backend/internal/api/middleware"
	"tesis-hub/backend/internal/model"
	"tesis-hub/backend/pkg/jwt"
	"tesis-hub/backend/pkg/redis"
)

// 普通 JSON 请求体上限；文件上传路由不受此限制，
// 由上传接口按配置的单文件上限校验
const jsonBodyLimit = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		auth.Use(middleware.BodyLimit(jsonBodyLimit))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 文件上传（学生上传项目图片/论文，导师也可代传）
			authorized.POST("/uploads",
				middleware.RoleAuth(model.RoleStudent, model.RoleTutor),
				h.Upload.Upload,
			)

			// 以下路由统一限制 JSON 请求体大小
			limited := authorized.Group("")
			limited.Use(middleware.BodyLimit(jsonBodyLimit))

			// 周期模块（导师专属）
			cycles := limited.Group("/cycles", middleware.RoleAuth(model.RoleTutor))
			{
				cycles.GET("", h.Cycle.List)
				cycles.GET("/current", h.Cycle.GetCurrent)
				cycles.GET("/rotation-preview", h.Cycle.PreviewRotation)
				cycles.POST("/rotate", h.Cycle.Rotate)
				cycles.PUT("/:id", h.Cycle.Update)
				cycles.PUT("/:id/status", h.Cycle.AdvanceStatus)
			}

			// 教授模块（列表对学生开放，管理操作导师专属）
			professors := limited.Group("/professors")
			{
				professors.GET("", h.Professor.List)
				professors.GET("/:id", h.Professor.Get)
				professors.POST("", middleware.RoleAuth(model.RoleTutor), h.Professor.Create)
				professors.PUT("/:id", middleware.RoleAuth(model.RoleTutor), h.Professor.Update)
				professors.DELETE("/:id", middleware.RoleAuth(model.RoleTutor), h.Professor.Delete)
				professors.POST("/import", middleware.RoleAuth(model.RoleTutor), h.Professor.Import)
				professors.POST("/:id/reset-password", middleware.RoleAuth(model.RoleTutor), h.Professor.ResetPassword)
			}

			// 学生模块
			students := limited.Group("/students")
			{
				students.GET("/me", middleware.RoleAuth(model.RoleStudent), h.Student.GetMyProfile)
				students.PUT("/me", middleware.RoleAuth(model.RoleStudent), h.Student.SaveMyProfile)
				students.GET("", middleware.RoleAuth(model.RoleTutor), h.Student.List)
				students.GET("/:id", middleware.RoleAuth(model.RoleTutor), h.Student.Get)
				students.POST("", middleware.RoleAuth(model.RoleTutor), h.Student.Create)
				students.DELETE("/:id", middleware.RoleAuth(model.RoleTutor), h.Student.Delete)
				students.POST("/import", middleware.RoleAuth(model.RoleTutor), h.Student.Import)
			}

			// 志愿模块（学生侧 + 教授侧）
			proposals := limited.Group("/proposals")
			{
				proposals.GET("/me", middleware.RoleAuth(model.RoleStudent), h.Proposal.ListMine)
				proposals.POST("", middleware.RoleAuth(model.RoleStudent), h.Proposal.Create)
				proposals.PUT("/:id/reorder", middleware.RoleAuth(model.RoleStudent), h.Proposal.Reorder)
				proposals.PUT("/:id/professor", middleware.RoleAuth(model.RoleStudent), h.Proposal.EditProfessor)
				proposals.DELETE("/:id", middleware.RoleAuth(model.RoleStudent), h.Proposal.Delete)
				proposals.GET("/inbox", middleware.RoleAuth(model.RoleProfessor), h.Proposal.Inbox)
				proposals.PUT("/:id/decision", middleware.RoleAuth(model.RoleProfessor), h.Proposal.Decide)
			}

			// 终审模块（导师专属）
			review := limited.Group("/review", middleware.RoleAuth(model.RoleTutor))
			{
				review.GET("/assignments", h.Review.ListAssignments)
				review.PUT("/assignments", h.Review.SaveAssignments)
			}

			// 导出模块（导师专属）
			export := limited.Group("/export", middleware.RoleAuth(model.RoleTutor))
			{
				export.GET("/assignments/csv", h.Export.ExportCSV)
				export.GET("/assignments/excel", h.Export.ExportExcel)
				export.GET("/assignments/pdf", h.Export.ExportPDF)
			}
		}
	}

	return r
}
