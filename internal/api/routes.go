package api

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes mounts the full API surface. Catalog writes and schedule
// mutations are trainer-only; trainees own their tracking and inbox.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	catalogService service.CatalogService,
	scheduleService service.ScheduleService,
	progressService service.ProgressService,
	stepService service.StepService,
	logService service.LogService,
	notificationService service.NotificationService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	catalogHandler := NewCatalogHandler(catalogService)
	scheduleHandler := NewScheduleHandler(scheduleService, progressService)
	trackerHandler := NewTrackerHandler(stepService, logService, progressService)
	notificationHandler := NewNotificationHandler(notificationService)

	authMiddleware := AuthMiddleware(jwtSecret)
	trainerOnly := RoleMiddleware(domain.RoleTrainer)

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
		// --- Accounts ---
		protected.GET("/me", userHandler.Me)
		protected.GET("/trainer", userHandler.GetTrainer)
		protected.GET("/trainees", trainerOnly, userHandler.ListTrainees)

		// --- Catalog ---
		mealGroup := protected.Group("/meals")
		{
			mealGroup.GET("", catalogHandler.ListMeals)
			mealGroup.GET("/:mealId", catalogHandler.GetMeal)
			mealGroup.GET("/:mealId/image", catalogHandler.GetMealImageURL)
			mealGroup.POST("", trainerOnly, catalogHandler.CreateMeal)
			mealGroup.PUT("/:mealId", trainerOnly, catalogHandler.UpdateMeal)
			mealGroup.DELETE("/:mealId", trainerOnly, catalogHandler.DeleteMeal)
			mealGroup.POST("/:mealId/image/upload-url", trainerOnly, catalogHandler.RequestMealImageUpload)
			mealGroup.POST("/:mealId/image/confirm", trainerOnly, catalogHandler.ConfirmMealImage)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", catalogHandler.ListExercises)
			exerciseGroup.GET("/:exerciseId", catalogHandler.GetExercise)
			exerciseGroup.POST("", trainerOnly, catalogHandler.CreateExercise)
			exerciseGroup.PUT("/:exerciseId", trainerOnly, catalogHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", trainerOnly, catalogHandler.DeleteExercise)
		}

		// --- Weekly schedule ---
		scheduleGroup := protected.Group("/schedule")
		{
			scheduleGroup.GET("", scheduleHandler.GetSchedule)

			scheduleGroup.POST("/:scheduleId/meals", trainerOnly, scheduleHandler.AssignMeal)
			scheduleGroup.GET("/:scheduleId/meals/:day", scheduleHandler.ListDayMeals)
			scheduleGroup.POST("/:scheduleId/exercises", trainerOnly, scheduleHandler.AssignExercise)
			scheduleGroup.GET("/:scheduleId/exercises/:day", scheduleHandler.ListDayExercises)
		}

		assignmentGroup := protected.Group("/assignments")
		{
			// Status flips belong to the trainee living the week; row
			// removal is the trainer reshaping the program.
			assignmentGroup.PATCH("/meals/:assignmentId/status", scheduleHandler.SetMealStatus)
			assignmentGroup.DELETE("/meals/:assignmentId", trainerOnly, scheduleHandler.RemoveMeal)
			assignmentGroup.PATCH("/exercises/:assignmentId/status", scheduleHandler.SetExerciseStatus)
			assignmentGroup.DELETE("/exercises/:assignmentId", trainerOnly, scheduleHandler.RemoveExercise)
		}

		// --- Derived progress ---
		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("/day", scheduleHandler.GetDayTotals)
			progressGroup.GET("/performance", scheduleHandler.GetDayPerformance)
			progressGroup.GET("/week", scheduleHandler.GetWeekTotals)
			progressGroup.GET("/steps", trackerHandler.GetStepProgress)
		}

		// --- Self tracking ---
		stepGroup := protected.Group("/steps")
		{
			stepGroup.POST("", trackerHandler.RecordSteps)
			stepGroup.GET("/week", trackerHandler.ListWeekSteps)
			stepGroup.PUT("/target", trackerHandler.UpdateStepTarget)
		}

		weightGroup := protected.Group("/weight")
		{
			weightGroup.POST("", trackerHandler.RecordWeight)
			weightGroup.GET("", trackerHandler.ListWeights)
		}

		loggedMealGroup := protected.Group("/logged-meals")
		{
			loggedMealGroup.POST("", trackerHandler.LogMeal)
			loggedMealGroup.GET("", trackerHandler.ListLoggedMeals)
			loggedMealGroup.PATCH("/:loggedMealId/status", trackerHandler.SetLoggedMealStatus)
			loggedMealGroup.DELETE("/:loggedMealId", trackerHandler.RemoveLoggedMeal)
		}

		// --- Notifications ---
		notificationGroup := protected.Group("/notifications")
		{
			notificationGroup.GET("", notificationHandler.List)
			notificationGroup.GET("/unread-count", notificationHandler.UnreadCount)
			notificationGroup.POST("", trainerOnly, notificationHandler.Send)
			notificationGroup.POST("/to-trainer", notificationHandler.SendToTrainer)
			notificationGroup.POST("/:notificationId/read", notificationHandler.MarkRead)
			notificationGroup.DELETE("/:notificationId", notificationHandler.Delete)
		}
	}
}
