package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/api/handler"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/api/middleware"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/service"
)

// Setup 初始化并返回 Gin 路由引擎；limiter 为 nil 时登录不限流
func Setup(cfg *config.Config, h *handler.Handler, authSvc service.AuthService, limiter middleware.Limiter, logger *zap.Logger) *gin.Engine {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	admin := middleware.RoleAuth(domain.RoleAdmin)
	manager := middleware.RoleAuth(domain.RoleAdmin, domain.RoleSupervisor)

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", h.System.Health)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(authSvc))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 本人
			me := authorized.Group("/me")
			{
				me.GET("/dashboard", h.User.Dashboard)
				me.PUT("/profile", h.User.UpdateProfile)
				me.PUT("/avatar", h.User.UpdateAvatar)
			}

			// 员工模块
			users := authorized.Group("/users")
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.POST("", admin, h.User.CreateUser)
				users.POST("/import", admin, h.Export.ImportUsers)
				users.PUT("/:id", admin, h.User.UpdateUser)
				users.DELETE("/:id", admin, h.User.DeleteUser)
				users.PUT("/:id/password", admin, h.User.ResetPassword)
				users.PUT("/:id/avatar", admin, h.User.UpdateAvatar)
				users.POST("/:id/balance", admin, h.User.AdjustBalance)
			}

			// 部门模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/managed", h.Department.ListManaged)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.GET("/:id/members", manager, h.Department.GetMembers)
				departments.POST("", admin, h.Department.CreateDepartment)
				departments.PUT("/:id", admin, h.Department.UpdateDepartment)
				departments.DELETE("/:id", admin, h.Department.DeleteDepartment)
			}

			// 申请模块（权限细节由 store 校验）
			requests := authorized.Group("/requests")
			{
				requests.GET("", h.Request.ListRequests)
				requests.GET("/mine", h.Request.MyRequests)
				requests.GET("/pending", manager, h.Request.PendingApprovals)
				requests.GET("/upcoming", h.Request.Upcoming)
				requests.GET("/overtime", h.Request.OvertimeRecords)
				requests.POST("", h.Request.CreateRequest)
				requests.POST("/absences", manager, h.Request.ReportAbsence)
				requests.GET("/:id", h.Request.GetRequest)
				requests.GET("/:id/trace", h.Request.Trace)
				requests.GET("/:id/conflicts", h.Request.Conflicts)
				requests.PUT("/:id", h.Request.UpdateRequest)
				requests.PUT("/:id/status", manager, h.Request.UpdateStatus)
				requests.PUT("/:id/justify", manager, h.Request.Justify)
				requests.DELETE("/:id", h.Request.DeleteRequest)
			}

			// 假期类型
			leaveTypes := authorized.Group("/leave-types")
			{
				leaveTypes.GET("", h.Catalog.ListLeaveTypes)
				leaveTypes.POST("", admin, h.Catalog.CreateLeaveType)
				leaveTypes.PUT("/:id", admin, h.Catalog.UpdateLeaveType)
				leaveTypes.DELETE("/:id", admin, h.Catalog.DeleteLeaveType)
			}

			// 节假日
			holidays := authorized.Group("/holidays")
			{
				holidays.GET("", h.Catalog.ListHolidays)
				holidays.POST("", admin, h.Catalog.CreateHoliday)
				holidays.DELETE("/:id", admin, h.Catalog.DeleteHoliday)
			}

			// 班次与排班
			shiftTypes := authorized.Group("/shift-types")
			{
				shiftTypes.GET("", h.Shift.ListShiftTypes)
				shiftTypes.POST("", admin, h.Shift.CreateShiftType)
				shiftTypes.PUT("/:id", admin, h.Shift.UpdateShiftType)
				shiftTypes.DELETE("/:id", admin, h.Shift.DeleteShiftType)
			}
			shifts := authorized.Group("/shifts")
			{
				shifts.GET("", h.Shift.ListAssignments)
				shifts.PUT("", manager, h.Shift.Assign)
			}
			authorized.GET("/calendar", h.Calendar.Calendar)

			// 防护用品
			ppe := authorized.Group("/ppe")
			{
				ppe.GET("/types", h.PPE.ListTypes)
				ppe.POST("/types", admin, h.PPE.CreateType)
				ppe.PUT("/types/:id", admin, h.PPE.UpdateType)
				ppe.DELETE("/types/:id", admin, h.PPE.DeleteType)
				ppe.GET("/requests", h.PPE.ListRequests)
				ppe.POST("/requests", h.PPE.CreateRequest)
				ppe.PUT("/requests/:id/deliver", admin, h.PPE.Deliver)
				ppe.DELETE("/requests/:id", h.PPE.DeleteRequest)
			}

			// 通知
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread", h.Notification.Unread)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.DELETE("/:id", h.Notification.Delete)
				notifications.POST("/broadcast", admin, h.Notification.Broadcast)
			}

			// 公告
			news := authorized.Group("/news")
			{
				news.GET("", h.News.List)
				news.GET("/:id", h.News.Get)
				news.POST("", admin, h.News.Create)
				news.PUT("/:id", admin, h.News.Update)
				news.DELETE("/:id", admin, h.News.Delete)
			}

			// 设置与邮件
			settings := authorized.Group("/settings", admin)
			{
				settings.GET("", h.Settings.Get)
				settings.PUT("/smtp", h.Settings.SaveSmtp)
				settings.PUT("/templates", h.Settings.SaveTemplates)
			}
			authorized.POST("/mail/test", admin, h.Settings.TestMail)

			// 导出
			export := authorized.Group("/export", admin)
			{
				export.GET("/requests", h.Export.ExportRequests)
				export.GET("/balances", h.Export.ExportBalances)
			}

			// 变更推送与概况
			authorized.GET("/events", h.Events.Stream)
			authorized.GET("/stats", admin, h.System.Stats)
		}
	}

	return r
}
