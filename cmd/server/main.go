package main

import (
	"alcyxob/coaching-app/internal/api"
	"alcyxob/coaching-app/internal/config"
	"alcyxob/coaching-app/internal/dateutil"
	"alcyxob/coaching-app/internal/repository/mongo"
	"alcyxob/coaching-app/internal/service"
	"alcyxob/coaching-app/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Coaching App Server...")

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
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureMealIndexes(ctx, appDB.Collection("meals"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureScheduleIndexes(ctx, appDB.Collection("weekly_schedules"))
		mongo.EnsureMealAssignmentIndexes(ctx, appDB.Collection("schedule_meals"))
		mongo.EnsureExerciseAssignmentIndexes(ctx, appDB.Collection("schedule_exercises"))
		mongo.EnsureLoggedMealIndexes(ctx, appDB.Collection("trainee_meals"))
		mongo.EnsureStepIndexes(ctx, appDB.Collection("trainee_steps"))
		mongo.EnsureWeightIndexes(ctx, appDB.Collection("trainee_weights"))
		mongo.EnsureNotificationIndexes(ctx, appDB.Collection("notifications"))
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
	mealRepo := mongo.NewMongoMealRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleRepository(appDB)
	mealAssignRepo := mongo.NewMongoMealAssignmentRepository(appDB)
	exAssignRepo := mongo.NewMongoExerciseAssignmentRepository(appDB)
	loggedMealRepo := mongo.NewMongoLoggedMealRepository(appDB)
	stepRepo := mongo.NewMongoStepRepository(appDB)
	weightRepo := mongo.NewMongoWeightRepository(appDB)
	notificationRepo := mongo.NewMongoNotificationRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	clock := dateutil.SystemClock{}
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(mealRepo, exerciseRepo, fileStorage)
	progressService := service.NewProgressService(scheduleRepo, mealAssignRepo, exAssignRepo, mealRepo, loggedMealRepo, stepRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, mealAssignRepo, exAssignRepo, mealRepo, exerciseRepo, progressService, clock)
	stepService := service.NewStepService(stepRepo, clock)
	logService := service.NewLogService(loggedMealRepo, weightRepo, progressService, clock)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, clock)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		userService,
		catalogService,
		scheduleService,
		progressService,
		stepService,
		logService,
		notificationService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

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
