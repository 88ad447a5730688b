package api

import (
	"net/http"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Services groups everything SetupRoutes needs wired in.
type Services struct {
	Auth         service.AuthService
	User         service.UserService
	Section      service.SectionService
	Exercise     service.ExerciseService
	Workout      service.WorkoutService
	Session      service.SessionService
	Social       service.SocialService
	Challenge    service.ChallengeService
	Notification service.NotificationService
	Metrics      service.MetricsService
	Dashboard    service.DashboardService
	Admin        service.AdminService
	Media        service.MediaService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	userHandler := NewUserHandler(services.User)
	sectionHandler := NewSectionHandler(services.Section)
	exerciseHandler := NewExerciseHandler(services.Exercise)
	workoutHandler := NewWorkoutHandler(services.Workout)
	sessionHandler := NewSessionHandler(services.Session)
	socialHandler := NewSocialHandler(services.Social)
	challengeHandler := NewChallengeHandler(services.Challenge)
	notificationHandler := NewNotificationHandler(services.Notification)
	metricsHandler := NewMetricsHandler(services.Metrics)
	dashboardHandler := NewDashboardHandler(services.Dashboard)
	adminHandler := NewAdminHandler(services.Admin)
	mediaHandler := NewMediaHandler(services.Media)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Profile ---
		meGroup := protected.Group("/me")
		{
			meGroup.GET("", userHandler.GetProfile)
			meGroup.PUT("", userHandler.UpdateProfile)
			meGroup.PUT("/password", userHandler.ChangePassword)
			meGroup.GET("/export", userHandler.ExportData)
		}
		protected.GET("/users/search", userHandler.Search)

		protected.GET("/dashboard", dashboardHandler.Get)

		// --- Sections ---
		sectionGroup := protected.Group("/sections")
		{
			sectionGroup.POST("", sectionHandler.Create)
			sectionGroup.GET("", sectionHandler.List)
			sectionGroup.PUT("/:id", sectionHandler.Update)
			sectionGroup.DELETE("/:id", sectionHandler.Delete)
		}

		// --- Exercises ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.Create)
			exerciseGroup.GET("", exerciseHandler.List)
			exerciseGroup.GET("/:id", exerciseHandler.Get)
			exerciseGroup.PUT("/:id", exerciseHandler.Update)
			exerciseGroup.DELETE("/:id", exerciseHandler.Delete)
		}

		// --- Workouts ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.Create)
			workoutGroup.GET("", workoutHandler.List)
			workoutGroup.GET("/:id", workoutHandler.Get)
			workoutGroup.PUT("/:id", workoutHandler.Update)
			workoutGroup.DELETE("/:id", workoutHandler.Delete)
			workoutGroup.POST("/:id/start", workoutHandler.Start)
			workoutGroup.POST("/:id/complete", workoutHandler.Complete)
		}

		// --- Sessions ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.Start)
			sessionGroup.GET("/active", sessionHandler.GetActive)
			sessionGroup.POST("/:id/sets", sessionHandler.CompleteSet)
			sessionGroup.PUT("/:id/progress", sessionHandler.UpdateProgress)
			sessionGroup.POST("/:id/complete", sessionHandler.Complete)
		}

		// --- Metrics ---
		metricsGroup := protected.Group("/metrics")
		{
			metricsGroup.POST("", metricsHandler.Create)
			metricsGroup.GET("", metricsHandler.List)
			metricsGroup.PUT("/:id", metricsHandler.Update)
			metricsGroup.DELETE("/:id", metricsHandler.Delete)
		}

		// --- Social: friends ---
		friendGroup := protected.Group("/friends")
		{
			friendGroup.GET("", socialHandler.ListFriends)
			friendGroup.POST("/requests", socialHandler.SendFriendRequest)
			friendGroup.GET("/requests", socialHandler.ListPendingRequests)
			friendGroup.PUT("/requests/:id", socialHandler.RespondFriendRequest)
		}
		protected.GET("/social/summary", socialHandler.Summary)

		// --- Social: conversations and messages ---
		conversationGroup := protected.Group("/conversations")
		{
			conversationGroup.GET("", socialHandler.ListConversations)
			conversationGroup.POST("/direct/:userId", socialHandler.CreateDirectConversation)
			conversationGroup.POST("/groups", socialHandler.CreateGroup)
			conversationGroup.POST("/join", socialHandler.JoinByCode)
			conversationGroup.GET("/communities", socialHandler.ListCommunities)
			conversationGroup.POST("/communities/:id/join", socialHandler.JoinCommunity)
			conversationGroup.GET("/:id/messages", socialHandler.ListMessages)
			conversationGroup.POST("/:id/messages", socialHandler.SendMessage)
		}

		// --- Social: posts ---
		postGroup := protected.Group("/posts")
		{
			postGroup.POST("", socialHandler.CreatePost)
			postGroup.GET("", socialHandler.ListFeed)
			postGroup.POST("/:id/like", socialHandler.ToggleLike)
			postGroup.POST("/:id/comments", socialHandler.AddComment)
		}

		// --- Challenges ---
		challengeGroup := protected.Group("/challenges")
		{
			challengeGroup.GET("", challengeHandler.List)
			challengeGroup.GET("/:id", challengeHandler.Get)
			challengeGroup.POST("/:id/participate", challengeHandler.Participate)
			challengeGroup.GET("/:id/leaderboard", challengeHandler.Leaderboard)
			challengeGroup.POST("", RoleMiddleware(domain.RoleAdmin), challengeHandler.Create)
		}

		// --- Notifications ---
		notificationGroup := protected.Group("/notifications")
		{
			notificationGroup.GET("", notificationHandler.List)
			notificationGroup.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// --- Media ---
		mediaGroup := protected.Group("/media")
		{
			mediaGroup.POST("/uploads", mediaHandler.PrepareUpload)
			mediaGroup.GET("/download-url", mediaHandler.ResolveDownloadURL)
		}

		// --- Admin console ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/stats", adminHandler.Stats)
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.PUT("/users/:id/role", adminHandler.SetUserRole)
			adminGroup.PUT("/users/:id/active", adminHandler.SetUserActive)
			adminGroup.GET("/exercises/pending", adminHandler.ListPendingExercises)
			adminGroup.PUT("/exercises/:id/review", adminHandler.ReviewExercise)
			adminGroup.GET("/workouts/pending", adminHandler.ListPendingWorkouts)
			adminGroup.PUT("/workouts/:id/review", adminHandler.ReviewWorkout)
		}
	}
}
