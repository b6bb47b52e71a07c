package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/middleware"
	"github.com/lkoehl/threesixty-server/models"
)

// POST /api/surveys/:id/:token/export
func CreateExport(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	jobID := uuid.New().String()
	job := models.ExportJob{
		JobID:    jobID,
		SurveyID: survey.ID,
		Status:   "queued",
	}
	if err := config.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create export job"})
		return
	}

	go processExportJob(jobID)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "queued",
	})
}

// GET /api/surveys/:id/:token/exports/:job_id
func GetExport(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	// exports carry participant emails and decisions, only the survey's
	// manager may read them
	jobID := c.Param("job_id")
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ? AND survey_id = ?", jobID, survey.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load job"})
		return
	}

	if job.Status == "done" && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

type exportRow struct {
	ParticipantEmail string
	Relation         string
	QuestionText     string
	Attribute        string
	Connotation      bool
	Decision         *bool
	CreatedAt        time.Time
}

func processExportJob(jobID string) {
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		return
	}
	config.DB.Model(&job).Update("status", "processing")

	fail := func(err error) {
		msg := err.Error()
		config.DB.Model(&job).Updates(map[string]interface{}{"status": "failed", "error_msg": msg})
	}

	var rows []exportRow
	if err := config.DB.Raw(`
		SELECT p.email AS participant_email, p.relation AS relation,
		       q.text AS question_text, q.attribute AS attribute,
		       q.connotation AS connotation, a.decision AS decision,
		       a.created_at AS created_at
		FROM answers a
		JOIN participants p ON a.participant_id = p.id
		JOIN questions q ON a.question_id = q.id
		WHERE a.survey_id = ?
		ORDER BY a.created_at ASC, a.id ASC
	`, job.SurveyID).Scan(&rows).Error; err != nil {
		fail(err)
		return
	}

	outDir := "./exports"
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fail(err)
		return
	}
	outPath := path.Join(outDir, fmt.Sprintf("survey_%d_%s.csv", job.SurveyID, job.JobID))

	f, err := os.Create(outPath)
	if err != nil {
		fail(err)
		return
	}

	w := csv.NewWriter(f)
	w.Write([]string{"participant", "relation", "question", "attribute", "connotation", "decision", "created_at"})
	for _, r := range rows {
		decision := "skipped"
		if r.Decision != nil {
			decision = fmt.Sprintf("%t", *r.Decision)
		}
		connotation := "negative"
		if r.Connotation {
			connotation = "positive"
		}
		w.Write([]string{
			r.ParticipantEmail,
			r.Relation,
			r.QuestionText,
			r.Attribute,
			connotation,
			decision,
			r.CreatedAt.Format(time.RFC3339),
		})
	}

	// the file must be fully on disk before the job reports done
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		fail(err)
		return
	}
	if err := f.Close(); err != nil {
		fail(err)
		return
	}

	config.DB.Model(&job).Updates(map[string]interface{}{"status": "done", "file_path": outPath})
}
