package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitorbit/backend/internal/api"
	"fitorbit/backend/internal/config"
	"fitorbit/backend/internal/repository/mongo"
	"fitorbit/backend/internal/service"
	"fitorbit/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title FitOrbit API
// @version 1.0
// @description API for workouts, sessions, social features, challenges and wellness metrics.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting FitOrbit server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation in the background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureSectionIndexes(ctx, appDB.Collection("workout_sections"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("workout_sessions"))
		mongo.EnsureFriendRequestIndexes(ctx, appDB.Collection("friend_requests"))
		mongo.EnsureConversationIndexes(ctx, appDB.Collection("conversations"))
		mongo.EnsureMessageIndexes(ctx, appDB.Collection("messages"))
		mongo.EnsurePostIndexes(ctx, appDB.Collection("social_posts"))
		mongo.EnsureChallengeIndexes(ctx, appDB.Collection("challenges"))
		mongo.EnsureNotificationIndexes(ctx, appDB.Collection("notifications"))
		mongo.EnsureMetricsIndexes(ctx, appDB.Collection("metrics"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	sectionRepo := mongo.NewMongoSectionRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	friendRepo := mongo.NewMongoFriendRequestRepository(appDB)
	conversationRepo := mongo.NewMongoConversationRepository(appDB)
	messageRepo := mongo.NewMongoMessageRepository(appDB)
	postRepo := mongo.NewMongoPostRepository(appDB)
	challengeRepo := mongo.NewMongoChallengeRepository(appDB)
	notificationRepo := mongo.NewMongoNotificationRepository(appDB)
	metricsRepo := mongo.NewMongoMetricsRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	notificationService := service.NewNotificationService(notificationRepo)
	workoutService := service.NewWorkoutService(workoutRepo, userRepo)
	services := api.Services{
		Auth:         service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		User:         service.NewUserService(userRepo, workoutRepo, metricsRepo),
		Section:      service.NewSectionService(sectionRepo, workoutRepo),
		Exercise:     service.NewExerciseService(exerciseRepo, sectionRepo),
		Workout:      workoutService,
		Session:      service.NewSessionService(sessionRepo, workoutRepo, workoutService),
		Social:       service.NewSocialService(userRepo, friendRepo, conversationRepo, messageRepo, postRepo, challengeRepo, notificationService),
		Challenge:    service.NewChallengeService(challengeRepo, notificationService),
		Notification: notificationService,
		Metrics:      service.NewMetricsService(metricsRepo),
		Dashboard:    service.NewDashboardService(userRepo, workoutRepo, sessionRepo, metricsRepo, notificationRepo),
		Admin:        service.NewAdminService(userRepo, workoutRepo, exerciseRepo),
		Media:        service.NewMediaService(fileStorage),
	}

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
