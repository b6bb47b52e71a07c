package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/models"
	"github.com/lkoehl/threesixty-server/utils"
)

const (
	CtxSurvey      = "surveyObj"
	CtxEmail       = "tokenEmail"
	CtxToken       = "token"
	CtxParticipant = "participantObj"
)

// resolveSurvey parses the :id and :token path segments, verifies the token
// signature and loads the survey. Every failure aborts with 404: a bad token
// must not reveal whether the survey exists.
func resolveSurvey(c *gin.Context) (models.Survey, string, bool) {
	var survey models.Survey

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return survey, "", false
	}

	token := c.Param("token")
	email, err := utils.VerifyToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return survey, "", false
	}

	if err := config.DB.First(&survey, id).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return survey, "", false
	}

	c.Set(CtxSurvey, survey)
	c.Set(CtxEmail, email)
	c.Set(CtxToken, token)
	return survey, email, true
}

// RequireEmployeeOrManager admits the survey's employee or manager.
func RequireEmployeeOrManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		survey, email, ok := resolveSurvey(c)
		if !ok {
			return
		}
		if email != survey.EmployeeEmail && email != survey.ManagerEmail {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.Next()
	}
}

// RequireManager admits only the survey's manager.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		survey, email, ok := resolveSurvey(c)
		if !ok {
			return
		}
		if email != survey.ManagerEmail {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.Next()
	}
}

// RequireParticipant resolves the token to a participant of the survey and
// injects it for the answer handlers.
func RequireParticipant() gin.HandlerFunc {
	return func(c *gin.Context) {
		survey, email, ok := resolveSurvey(c)
		if !ok {
			return
		}

		var participant models.Participant
		if err := config.DB.
			Where("email = ? AND survey_id = ?", email, survey.ID).
			First(&participant).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}

		c.Set(CtxParticipant, participant)
		c.Next()
	}
}
