package app

import (
	"skillswap_backend/docs"
	"skillswap_backend/internal/middleware"
	"skillswap_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 资料类：可选认证，匿名只能看公开资料
	viewable := router.Group("/api")
	viewable.Use(middleware.TryAuthMiddleware(a.Config, repos.user))
	{
		viewable.GET("/users/:id", c.user.GetUser)
		viewable.GET("/skills/user/:userId", c.skill.ListByUser)
		viewable.GET("/skills/user/:userId/offered", c.skill.ListOfferedByUser)
		viewable.GET("/skills/user/:userId/wanted", c.skill.ListWantedByUser)
		viewable.GET("/feedback/user/:userId", c.feedback.ListByUser)
		viewable.GET("/feedback/rating/:userId", c.feedback.AverageRating)
	}

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.Config, repos.user))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerSkillRoutes(authGroup, c)
		a.registerSwapRoutes(authGroup, c)
		a.registerFeedbackRoutes(authGroup, c)
	}

	// 3. 管理员接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(a.Config, repos.user), middleware.AdminMiddleware())
	{
		admin.GET("/users", c.admin.ListUsers)
		admin.GET("/users/admins", c.admin.ListAdmins)
		admin.PUT("/users/:id/make-admin", c.admin.MakeAdmin)
		admin.PUT("/users/:id/remove-admin", c.admin.RemoveAdmin)
		admin.GET("/skills/pending", c.admin.ListPendingSkills)
		admin.PUT("/skills/:id/approve", c.admin.ApproveSkill)
		admin.PUT("/skills/:id/reject", c.admin.RejectSkill)
		admin.GET("/swap-requests/stats", c.admin.SwapStats)
		admin.GET("/feedback/low-rating", c.admin.LowRatingFeedback)
		admin.GET("/reports/user-activity", c.admin.UserActivityReport)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/users/public", c.user.ListPublic)

		public.GET("/skills/public/names", c.skill.ListNames)
		public.GET("/skills/public/search", c.skill.Search)
		public.GET("/skills/public/offered", c.skill.SearchOffered)
		public.GET("/skills/public/wanted", c.skill.SearchWanted)
	}
}

func (a *App) registerUserRoutes(r *gin.RouterGroup, c *controllers) {
	users := r.Group("/users")
	{
		users.GET("/search/offered-skills", c.user.SearchByOfferedSkill)
		users.GET("/search/wanted-skills", c.user.SearchByWantedSkill)
		users.GET("/profile", c.user.GetProfile)
		users.PUT("/profile", c.user.UpdateProfile)
		users.POST("/profile/photo", c.user.UploadProfilePhoto)

		adminOnly := users.Group("", middleware.AdminMiddleware())
		adminOnly.PUT("/:id/activate", c.user.Activate)
		adminOnly.PUT("/:id/deactivate", c.user.Deactivate)
	}
}

func (a *App) registerSkillRoutes(r *gin.RouterGroup, c *controllers) {
	skills := r.Group("/skills")
	{
		skills.GET("/:id", c.skill.GetSkill)
		skills.POST("", c.skill.CreateSkill)
		skills.PUT("/:id", c.skill.UpdateSkill)
		skills.DELETE("/:id", c.skill.DeleteSkill)

		adminOnly := skills.Group("", middleware.AdminMiddleware())
		adminOnly.GET("/pending-approval", c.skill.ListPendingApproval)
		adminOnly.PUT("/:id/approve", c.skill.ApproveSkill)
		adminOnly.PUT("/:id/reject", c.skill.RejectSkill)
	}
}

func (a *App) registerSwapRoutes(r *gin.RouterGroup, c *controllers) {
	swaps := r.Group("/swap-requests")
	{
		swaps.GET("", c.swap.ListMine)
		swaps.GET("/sent", c.swap.ListSent)
		swaps.GET("/received", c.swap.ListReceived)
		swaps.GET("/status/:status", c.swap.ListMineByStatus)
		swaps.GET("/:id", c.swap.GetSwapRequest)
		swaps.POST("", c.swap.CreateSwapRequest)
		swaps.PUT("/:id/accept", c.swap.Accept)
		swaps.PUT("/:id/reject", c.swap.Reject)
		swaps.PUT("/:id/complete", c.swap.Complete)
		swaps.PUT("/:id/cancel", c.swap.Cancel)

		adminOnly := swaps.Group("/admin", middleware.AdminMiddleware())
		adminOnly.GET("/all", c.swap.ListAll)
		adminOnly.GET("/status/:status", c.swap.ListByStatus)
	}
}

func (a *App) registerFeedbackRoutes(r *gin.RouterGroup, c *controllers) {
	feedback := r.Group("/feedback")
	{
		feedback.GET("/given", c.feedback.ListGiven)
		feedback.GET("/received", c.feedback.ListReceived)
		feedback.GET("/swap-request/:swapRequestId", c.feedback.ListBySwapRequest)
		feedback.POST("", c.feedback.CreateFeedback)
		feedback.DELETE("/:id", c.feedback.DeleteFeedback)

		adminOnly := feedback.Group("/admin", middleware.AdminMiddleware())
		adminOnly.GET("/all", c.feedback.ListAll)
		adminOnly.GET("/low-rating", c.feedback.ListLowRating)
		adminOnly.GET("/high-rating", c.feedback.ListHighRating)
		adminOnly.GET("/range", c.feedback.ListByDateRange)
	}
}
