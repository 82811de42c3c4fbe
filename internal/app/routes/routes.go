package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/attendance/internal/app/controllers"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Health     *controllers.HealthController
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Attendance *controllers.AttendanceController
	Grade      *controllers.GradeController
}

// Options toggles the optional parts of the route table
type Options struct {
	// EnforceRoles requires a token on every /api route except login and health
	EnforceRoles bool
	// EnableSeed mounts POST /api/users/seed
	EnableSeed bool
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware, opts Options) {
	router.GET("/", c.Health.Root)

	api := router.Group("/api")
	api.GET("/health", c.Health.Health)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
	}

	if opts.EnableSeed {
		api.POST("/users/seed", c.User.SeedUsers)
	}

	// Role guards are no-ops unless enforcement is on
	authenticated := api.Group("")
	restrict := func(...models.Role) gin.HandlerFunc {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	if opts.EnforceRoles {
		authenticated.Use(authMiddleware.JWTAuth())
		restrict = authMiddleware.RoleRequired
	}
	staff := restrict(models.RoleAdmin, models.RoleTeacher)

	users := authenticated.Group("/users")
	users.Use(restrict(models.RoleAdmin))
	{
		users.GET("", c.User.ListUsers)
		users.POST("", c.User.CreateUser)
		users.GET("/:id", c.User.GetUser)
		users.PUT("/:id", c.User.UpdateUser)
		users.DELETE("/:id", c.User.DeleteUser)
	}

	attendance := authenticated.Group("/attendance")
	{
		attendance.POST("", staff, c.Attendance.SaveAttendance)
		attendance.GET("", c.Attendance.GetClassAttendance)
		attendance.GET("/stats", c.Attendance.GetStats)
		attendance.GET("/student/:studentId", c.Attendance.GetStudentAttendance)
	}

	grades := authenticated.Group("/grades")
	{
		grades.POST("", staff, c.Grade.SaveGrade)
		grades.GET("", c.Grade.ListGrades)
		grades.GET("/student/:studentId", c.Grade.GetStudentGrades)
		grades.DELETE("/:id", staff, c.Grade.DeleteGrade)
		grades.DELETE("/student/:studentId/subject/:subject/semester/:semester", staff, c.Grade.DeleteSubjectGrades)
	}
}
