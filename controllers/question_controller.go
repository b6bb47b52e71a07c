package controllers

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/models"
)

/* ========== Question bank (admin only) ========== */

type addQuestionReq struct {
	Text        string `json:"text" binding:"required,min=1,max=79"`
	Attribute   string `json:"attribute" binding:"required,min=1,max=30"`
	Connotation *bool  `json:"connotation" binding:"required"`
}

// POST /api/admin/questions
func AddQuestion(c *gin.Context) {
	var req addQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	question := models.Question{
		Text:        req.Text,
		Attribute:   req.Attribute,
		Connotation: *req.Connotation,
	}
	if err := config.DB.Create(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Question already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create question"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": question.ID})
}

// GET /api/admin/questions
func ListQuestions(c *gin.Context) {
	var questions []models.Question
	if err := config.DB.Order("created_at DESC, id DESC").Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

/* ========== CSV import ========== */

type importReq struct {
	URL string `json:"url" binding:"required,url"`
}

// importQuestionsCSV reads rows with the headers "statement", "attribute"
// and "connotation" ("1", "true" or "positive" mean positive). Rows whose
// statement already exists are skipped, not overwritten.
func importQuestionsCSV(db *gorm.DB, r io.Reader) (imported, skipped int, err error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return 0, 0, errors.New("could not read CSV header")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"statement", "attribute", "connotation"} {
		if _, ok := cols[required]; !ok {
			return 0, 0, errors.New("CSV headers do not match")
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, skipped, err
		}

		connotation := false
		switch strings.TrimSpace(record[cols["connotation"]]) {
		case "1", "true", "positive":
			connotation = true
		}

		question := models.Question{
			Text:        strings.TrimSpace(record[cols["statement"]]),
			Attribute:   strings.TrimSpace(record[cols["attribute"]]),
			Connotation: connotation,
		}
		if createErr := db.Create(&question).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				skipped++
				continue
			}
			return imported, skipped, createErr
		}
		imported++
	}
	return imported, skipped, nil
}

// POST /api/admin/questions/import
func ImportQuestions(c *gin.Context) {
	var req importReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	resp, err := http.Get(req.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "Could not fetch CSV"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadGateway, gin.H{"message": "Could not fetch CSV"})
		return
	}

	imported, skipped, err := importQuestionsCSV(config.DB, resp.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported, "skipped": skipped})
}
