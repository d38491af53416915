package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/teamtrack/workforce-api/internal/config"
	"github.com/teamtrack/workforce-api/internal/constants"
	"github.com/teamtrack/workforce-api/internal/database"
	"github.com/teamtrack/workforce-api/internal/handlers"
	"github.com/teamtrack/workforce-api/internal/logger"
	"github.com/teamtrack/workforce-api/internal/middleware"
	"github.com/teamtrack/workforce-api/internal/repository"
	"github.com/teamtrack/workforce-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Init(cfg.GinMode)
	defer logger.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("failed to run migrations", zap.Error(err))
	}

	db := database.GetDB()

	// Wire repositories, services and handlers
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	contactRepo := repository.NewContactRepository(db)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo, userRepo)
	contactService := services.NewContactService(contactRepo)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	contactHandler := handlers.NewContactHandler(contactService)

	// Initialize Gin router
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Log.Fatal("failed to create redis store", zap.Error(err))
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Health check endpoint
	r.GET("/healthz", func(c *gin.Context) {
		status := "ok"
		code := 200
		if sqlDB, err := database.GetDB().DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			code = 503
		}
		c.JSON(code, gin.H{
			"status": status,
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", middleware.RequireAdmin(), taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireAdmin(), taskHandler.DeleteTask)
			tasks.POST("/:id/request-completion", taskHandler.RequestCompletion)
			tasks.PUT("/:id/approve", middleware.RequireAdmin(), taskHandler.ApproveCompletion)
			tasks.PUT("/:id/reject", middleware.RequireAdmin(), taskHandler.RejectCompletion)
		}

		// Attendance routes (protected)
		attendance := api.Group("/attendance")
		attendance.Use(middleware.RequireAuth())
		{
			attendance.POST("/checkin", attendanceHandler.CheckIn)
			attendance.POST("/checkout", attendanceHandler.CheckOut)
			attendance.GET("", attendanceHandler.ListAttendance)
			attendance.POST("", attendanceHandler.CreateAttendance)
			attendance.GET("/pending", middleware.RequireAdmin(), attendanceHandler.ListPending)
			attendance.GET("/:id", attendanceHandler.GetAttendance)
			attendance.PUT("/:id", attendanceHandler.UpdateAttendance)
			attendance.DELETE("/:id", middleware.RequireAdmin(), attendanceHandler.DeleteAttendance)
			attendance.PUT("/:id/approve", middleware.RequireAdmin(), attendanceHandler.Approve)
			attendance.PUT("/:id/disapprove", middleware.RequireAdmin(), attendanceHandler.Disapprove)
		}

		// User administration routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", middleware.RequireAdmin(), userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)
		}

		// Contact routes (submission is public, management is admin)
		contact := api.Group("/contact")
		{
			contact.POST("", contactHandler.CreateContact)
			contact.GET("", middleware.RequireAuth(), middleware.RequireAdmin(), contactHandler.ListContacts)
			contact.GET("/:id", middleware.RequireAuth(), middleware.RequireAdmin(), contactHandler.GetContact)
			contact.PUT("/:id", middleware.RequireAuth(), middleware.RequireAdmin(), contactHandler.UpdateContactStatus)
			contact.DELETE("/:id", middleware.RequireAuth(), middleware.RequireAdmin(), contactHandler.DeleteContact)
		}
	}

	// Start server
	logger.Log.Info("server starting", zap.String("addr", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		logger.Log.Fatal("failed to start server", zap.Error(err))
	}
}
