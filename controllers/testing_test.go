package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/middleware"
	"github.com/lkoehl/threesixty-server/models"
	"github.com/lkoehl/threesixty-server/utils"
)

type sentMail struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// mailRecorder captures outgoing mail instead of sending it.
type mailRecorder struct {
	mu    sync.Mutex
	sends []sentMail
}

func (m *mailRecorder) Send(subject, body, from string, to []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, sentMail{Subject: subject, Body: body, From: from, To: to})
	return nil
}

func (m *mailRecorder) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sends...)
}

// setupTest swaps the global DB for an isolated in-memory SQLite database
// and installs a mail recorder. Returns the router and the recorder.
func setupTest(t *testing.T) (*gin.Engine, *mailRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db
	config.Env.TokenSecret = "test-secret"
	config.Env.TokenTTLHours = 0
	config.Env.BaseURL = "http://test.local"
	config.Env.AdminKeyHash = ""

	recorder := &mailRecorder{}
	Mail = recorder

	// same table as routes.SetupRoutes, minus the create rate limiter
	r := gin.New()
	r.GET("/thanks", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Thank you for your feedback!"})
	})
	api := r.Group("/api")
	api.POST("/surveys", CreateSurvey)
	surveys := api.Group("/surveys/:id/:token")
	surveys.GET("", middleware.RequireEmployeeOrManager(), GetSurvey)
	surveys.PATCH("", middleware.RequireManager(), UpdateSurvey)
	surveys.GET("/data", middleware.RequireEmployeeOrManager(), GetSurveyData)
	surveys.POST("/participants", middleware.RequireEmployeeOrManager(), InviteParticipant)
	surveys.GET("/answer", middleware.RequireParticipant(), GetNextQuestion)
	surveys.GET("/answer/:question_id", middleware.RequireParticipant(), GetSpecificQuestion)
	surveys.POST("/answer", middleware.RequireParticipant(), SubmitAnswer)
	surveys.POST("/export", middleware.RequireManager(), CreateExport)
	surveys.GET("/exports/:job_id", middleware.RequireManager(), GetExport)
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdminKey())
	admin.GET("/questions", ListQuestions)
	admin.POST("/questions", AddQuestion)
	admin.POST("/questions/import", ImportQuestions)

	return r, recorder
}

func doJSON(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

/* ========== fixtures ========== */

func newSurvey(t *testing.T) models.Survey {
	t.Helper()
	survey := models.Survey{
		EmployeeName:   "sebastian",
		EmployeeGender: models.GenderMale,
		EmployeeEmail:  "sebastian@mail.com",
		ManagerEmail:   "johannes@mail.com",
	}
	if err := config.DB.Create(&survey).Error; err != nil {
		t.Fatalf("create survey: %v", err)
	}
	return survey
}

func newParticipant(t *testing.T, survey models.Survey, email, relation string) models.Participant {
	t.Helper()
	participant := models.Participant{
		Email:    email,
		SurveyID: survey.ID,
		Relation: relation,
	}
	if err := config.DB.Create(&participant).Error; err != nil {
		t.Fatalf("create participant: %v", err)
	}
	return participant
}

func newQuestion(t *testing.T, text, attribute string, connotation bool) models.Question {
	t.Helper()
	question := models.Question{Text: text, Attribute: attribute, Connotation: connotation}
	if err := config.DB.Create(&question).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	return question
}

func newAnswer(t *testing.T, survey models.Survey, question models.Question, participant models.Participant, decision *bool) models.Answer {
	t.Helper()
	answer := models.Answer{
		SurveyID:      survey.ID,
		QuestionID:    question.ID,
		ParticipantID: participant.ID,
		Decision:      decision,
	}
	if err := config.DB.Create(&answer).Error; err != nil {
		t.Fatalf("create answer: %v", err)
	}
	return answer
}

func surveyPathFor(s models.Survey, token string) string {
	return fmt.Sprintf("/api/surveys/%d/%s", s.ID, token)
}

func tokenFor(t *testing.T, email string) string {
	t.Helper()
	token, err := utils.IssueToken(email)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func boolPtr(b bool) *bool { return &b }
