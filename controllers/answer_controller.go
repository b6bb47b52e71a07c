package controllers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/middleware"
	"github.com/lkoehl/threesixty-server/models"
)

// answerPath is the redirect target of the answer flow (relative, unlike the
// absolute links that go out by mail).
func answerPath(s models.Survey, token string) string {
	return fmt.Sprintf("/api/surveys/%d/%s/answer", s.ID, token)
}

/* ========== Question selection ========== */

// answeredQuestionIDs returns the ids of every question the participant has
// an answer row for. Skipped answers count as answered; undone answers are
// deleted so they do not.
func answeredQuestionIDs(db *gorm.DB, p models.Participant) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Answer{}).
		Where("participant_id = ?", p.ID).
		Pluck("question_id", &ids).Error
	return ids, err
}

// nextQuestion picks uniformly among the questions the participant has not
// answered yet. Each call recomputes from current state.
func nextQuestion(db *gorm.DB, p models.Participant) (models.Question, error) {
	var question models.Question

	answered, err := answeredQuestionIDs(db, p)
	if err != nil {
		return question, err
	}

	q := db.Model(&models.Question{})
	if len(answered) > 0 {
		q = q.Where("id NOT IN ?", answered)
	}

	var remaining []models.Question
	if err := q.Find(&remaining).Error; err != nil {
		return question, err
	}
	if len(remaining) == 0 {
		return question, ErrNoQuestionLeft
	}
	return remaining[rand.Intn(len(remaining))], nil
}

// questionByID returns the question unless the participant already has an
// answer for it.
func questionByID(db *gorm.DB, p models.Participant, questionID uint) (models.Question, error) {
	var question models.Question
	if err := db.First(&question, questionID).Error; err != nil {
		return question, err
	}

	var count int64
	if err := db.Model(&models.Answer{}).
		Where("participant_id = ? AND question_id = ?", p.ID, questionID).
		Count(&count).Error; err != nil {
		return question, err
	}
	if count > 0 {
		return question, ErrAlreadyAnswered
	}
	return question, nil
}

// progress counts the participant's answers against the global question bank.
func progress(db *gorm.DB, p models.Participant) (answered, total int64, err error) {
	if err = db.Model(&models.Answer{}).
		Where("participant_id = ?", p.ID).
		Count(&answered).Error; err != nil {
		return
	}
	err = db.Model(&models.Question{}).Count(&total).Error
	return
}

/* ========== Answer recording ========== */

// undoLatestAnswer deletes the participant's most recent answer and returns
// the question id it belonged to, so the caller can re-present it.
func undoLatestAnswer(db *gorm.DB, p models.Participant) (uint, error) {
	var latest models.Answer
	err := db.Where("participant_id = ?", p.ID).
		Order("created_at DESC, id DESC").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNoAnswerToUndo
	}
	if err != nil {
		return 0, err
	}

	if err := db.Delete(&latest).Error; err != nil {
		return 0, err
	}
	return latest.QuestionID, nil
}

// recordAnswer persists one decision, enforcing the skip policy. A nil
// decision is an explicit skip. The unique index on (survey, question,
// participant) is the duplicate guard under concurrent submission.
func recordAnswer(db *gorm.DB, s models.Survey, p models.Participant, questionID uint, decision *bool) error {
	if decision == nil && !s.ParticipantCanSkip {
		return ErrSkipNotAllowed
	}
	answer := models.Answer{
		SurveyID:      s.ID,
		QuestionID:    questionID,
		ParticipantID: p.ID,
		Decision:      decision,
	}
	return db.Create(&answer).Error
}

/* ========== Handlers ========== */

// GET /api/surveys/:id/:token/answer
func GetNextQuestion(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)
	participant := c.MustGet(middleware.CtxParticipant).(models.Participant)

	question, err := nextQuestion(config.DB, participant)
	if errors.Is(err, ErrNoQuestionLeft) {
		c.Redirect(http.StatusFound, "/thanks")
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not pick a question"})
		return
	}

	renderQuestion(c, survey, participant, question)
}

// GET /api/surveys/:id/:token/answer/:question_id
func GetSpecificQuestion(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)
	participant := c.MustGet(middleware.CtxParticipant).(models.Participant)
	token := c.MustGet(middleware.CtxToken).(string)

	qid, err := strconv.Atoi(c.Param("question_id"))
	if err != nil || qid <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	question, err := questionByID(config.DB, participant, uint(qid))
	if errors.Is(err, ErrAlreadyAnswered) {
		c.Redirect(http.StatusFound, answerPath(survey, token))
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load question"})
		return
	}

	renderQuestion(c, survey, participant, question)
}

func renderQuestion(c *gin.Context, survey models.Survey, participant models.Participant, question models.Question) {
	answered, total, err := progress(config.DB, participant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not compute progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":               survey.EmployeeName,
		"question_id":        question.ID,
		"statement":          question.Display(survey),
		"can_skip":           survey.ParticipantCanSkip,
		"show_progress":      survey.ShowQuestionProgress,
		"answered_questions": answered,
		"total_questions":    total,
	})
}

type submitAnswerReq struct {
	QuestionID uint  `json:"question_id"`
	Decision   *bool `json:"decision"`
	Undo       bool  `json:"undo"`
}

// POST /api/surveys/:id/:token/answer
func SubmitAnswer(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)
	participant := c.MustGet(middleware.CtxParticipant).(models.Participant)
	token := c.MustGet(middleware.CtxToken).(string)

	// a completed survey rejects further answers
	if survey.IsComplete {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	var req submitAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	if req.Undo {
		questionID, err := undoLatestAnswer(config.DB, participant)
		if errors.Is(err, ErrNoAnswerToUndo) {
			c.Redirect(http.StatusFound, answerPath(survey, token))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Undo failed"})
			return
		}
		c.Redirect(http.StatusFound, fmt.Sprintf("%s/%d", answerPath(survey, token), questionID))
		return
	}

	if req.QuestionID == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "question_id is required"})
		return
	}
	var question models.Question
	if err := config.DB.First(&question, req.QuestionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	err := recordAnswer(config.DB, survey, participant, question.ID, req.Decision)
	switch {
	case errors.Is(err, ErrSkipNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"message": "Skipping is not allowed for this survey"})
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"message": "Question already answered"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save answer"})
		return
	}

	c.Redirect(http.StatusFound, answerPath(survey, token))
}
