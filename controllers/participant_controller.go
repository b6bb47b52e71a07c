package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/middleware"
	"github.com/lkoehl/threesixty-server/models"
	"github.com/lkoehl/threesixty-server/utils"
)

type inviteReq struct {
	Email    string `json:"email" binding:"required,email"`
	Relation string `json:"relation" binding:"required"`
}

// POST /api/surveys/:id/:token/participants
func InviteParticipant(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	// completed surveys reject any mutation
	if survey.IsComplete {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	var req inviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if !models.ValidRelation(req.Relation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid relation"})
		return
	}

	participant := models.Participant{
		Email:    req.Email,
		SurveyID: survey.ID,
		Relation: req.Relation,
	}
	if err := config.DB.Create(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Participant already invited"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create participant"})
		return
	}

	participantToken, err := utils.IssueToken(participant.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue token"})
		return
	}
	link := answerURL(survey, participantToken)

	subject, body := utils.InviteMail(utils.MailData{EmployeeName: survey.EmployeeName, SurveyURL: link})
	if err := Mail.Send(subject, body, survey.ManagerEmail, []string{participant.Email}); err != nil {
		log.Printf("invite mail for participant %d failed: %v", participant.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       participant.ID,
		"email":    participant.Email,
		"relation": participant.Relation,
	})
}
