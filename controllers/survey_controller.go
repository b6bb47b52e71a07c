package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/middleware"
	"github.com/lkoehl/threesixty-server/models"
	"github.com/lkoehl/threesixty-server/utils"
)

// Mail is the mail collaborator, swapped for a recorder in tests.
var Mail utils.Mailer

func surveyURL(s models.Survey, token string) string {
	return fmt.Sprintf("%s/api/surveys/%d/%s", config.Env.BaseURL, s.ID, token)
}

func answerURL(s models.Survey, token string) string {
	return surveyURL(s, token) + "/answer"
}

/* ========== Create survey ========== */

type createSurveyReq struct {
	EmployeeName         string `json:"employee_name" binding:"required,min=1,max=30"`
	EmployeeGender       string `json:"employee_gender"`
	EmployeeEmail        string `json:"employee_email" binding:"required,email"`
	ManagerEmail         string `json:"manager_email" binding:"required,email"`
	ParticipantCanSkip   bool   `json:"participant_can_skip"`
	ShowQuestionProgress bool   `json:"show_question_progress"`
}

// POST /api/surveys
func CreateSurvey(c *gin.Context) {
	var req createSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	gender := req.EmployeeGender
	if gender == "" {
		gender = models.GenderOther
	}
	if gender != models.GenderFemale && gender != models.GenderMale && gender != models.GenderOther {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid employee_gender"})
		return
	}

	survey := models.Survey{
		EmployeeName:         req.EmployeeName,
		EmployeeGender:       gender,
		EmployeeEmail:        req.EmployeeEmail,
		ManagerEmail:         req.ManagerEmail,
		ParticipantCanSkip:   req.ParticipantCanSkip,
		ShowQuestionProgress: req.ShowQuestionProgress,
	}
	if err := config.DB.Create(&survey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create survey"})
		return
	}

	managerToken, err := utils.IssueToken(survey.ManagerEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue tokens"})
		return
	}
	employeeToken, err := utils.IssueToken(survey.EmployeeEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue tokens"})
		return
	}

	managerURL := surveyURL(survey, managerToken)
	employeeURL := surveyURL(survey, employeeToken)

	subject, body := utils.ManagerMail(utils.MailData{EmployeeName: survey.EmployeeName, SurveyURL: managerURL})
	if err := Mail.Send(subject, body, survey.ManagerEmail, []string{survey.ManagerEmail}); err != nil {
		log.Printf("manager mail for survey %d failed: %v", survey.ID, err)
	}
	subject, body = utils.EmployeeMail(utils.MailData{EmployeeName: survey.EmployeeName, SurveyURL: employeeURL})
	if err := Mail.Send(subject, body, survey.ManagerEmail, []string{survey.EmployeeEmail}); err != nil {
		log.Printf("employee mail for survey %d failed: %v", survey.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           survey.ID,
		"manager_url":  managerURL,
		"employee_url": employeeURL,
		"created_at":   survey.CreatedAt,
	})
}

/* ========== Survey detail (employee or manager) ========== */

// GET /api/surveys/:id/:token
func GetSurvey(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var participants []models.Participant
	if err := config.DB.
		Where("survey_id = ?", survey.ID).
		Order("created_at ASC, id ASC").
		Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load participants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"survey":       survey,
		"participants": participants,
	})
}

/* ========== Mark complete / reopen (manager only) ========== */

type updateSurveyReq struct {
	IsComplete *bool `json:"is_complete" binding:"required"`
}

// PATCH /api/surveys/:id/:token
func UpdateSurvey(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var req updateSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	// IsComplete is the only field that may change after creation.
	if err := config.DB.Model(&models.Survey{}).
		Where("id = ?", survey.ID).
		Update("is_complete", *req.IsComplete).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated", "is_complete": *req.IsComplete})
}
