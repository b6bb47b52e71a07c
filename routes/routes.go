package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lkoehl/threesixty-server/controllers"
	"github.com/lkoehl/threesixty-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)
	r.GET("/thanks", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Thank you for your feedback!"})
	})

	api := r.Group("/api")
	{
		api.POST("/surveys", middleware.RateLimitSurveyCreate(), controllers.CreateSurvey)

		surveys := api.Group("/surveys/:id/:token")
		{
			surveys.GET("", middleware.RequireEmployeeOrManager(), controllers.GetSurvey)
			surveys.PATCH("", middleware.RequireManager(), controllers.UpdateSurvey)
			surveys.GET("/data", middleware.RequireEmployeeOrManager(), controllers.GetSurveyData)
			surveys.POST("/participants", middleware.RequireEmployeeOrManager(), controllers.InviteParticipant)

			surveys.GET("/answer", middleware.RequireParticipant(), controllers.GetNextQuestion)
			surveys.GET("/answer/:question_id", middleware.RequireParticipant(), controllers.GetSpecificQuestion)
			surveys.POST("/answer", middleware.RequireParticipant(), controllers.SubmitAnswer)

			surveys.POST("/export", middleware.RequireManager(), controllers.CreateExport)
			surveys.GET("/exports/:job_id", middleware.RequireManager(), controllers.GetExport)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdminKey())
		{
			admin.GET("/questions", controllers.ListQuestions)
			admin.POST("/questions", controllers.AddQuestion)
			admin.POST("/questions/import", controllers.ImportQuestions)
		}
	}
}
