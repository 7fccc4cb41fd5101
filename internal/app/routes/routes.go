package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okandemir/studenthub/internal/app/controllers"
	"github.com/okandemir/studenthub/internal/app/models"
	"github.com/okandemir/studenthub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	userController *controllers.UserController,
	reportController *controllers.ReportController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// Everything below requires a valid token
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.Me)
		authenticated.PUT("/auth/password", authController.ChangePassword)

		// Account registration and management is admin-only
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("/auth/register", authController.Register)

			users := admin.Group("/users")
			{
				users.GET("", userController.List)
				users.GET("/stats", userController.Stats)
				users.GET("/roles", userController.Roles)
				users.GET("/:id", userController.Get)
				users.PUT("/:id", userController.Update)
				users.DELETE("/:id", userController.Delete)
			}
		}

		// Student records are managed by staff; students can see their own
		students := authenticated.Group("/students")
		{
			students.GET("/me", studentController.MyProfile)

			staff := students.Group("")
			staff.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher))
			{
				staff.POST("", studentController.Create)
				staff.GET("", studentController.List)
				staff.GET("/analytics", studentController.Analytics)
				staff.GET("/:id", studentController.Get)
				staff.PUT("/:id", studentController.Update)
				staff.DELETE("/:id", studentController.Delete)
			}
		}

		reports := authenticated.Group("/reports")
		reports.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher))
		{
			reports.GET("/students", reportController.Students)
			reports.GET("/students/:id", reportController.StudentProfile)
		}
	}
}
