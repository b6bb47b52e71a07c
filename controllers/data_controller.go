package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/middleware"
	"github.com/lkoehl/threesixty-server/models"
)

// scoreExpr maps a decision onto {0,1} with the question's connotation
// folded in: answering "yes" on a positive question and "no" on a negative
// one both score 1. Skipped answers (NULL decision) drop out of the average.
const scoreExpr = `AVG(CASE
	WHEN a.decision IS NULL THEN NULL
	WHEN a.decision = q.connotation THEN 1.0
	ELSE 0.0
END)`

type scoreRow struct {
	Relation  string
	Attribute string
	Score     *float64
}

// relationScores is one grouped pass per relation within the survey.
func relationScores(db *gorm.DB, surveyID uint) ([]scoreRow, error) {
	var rows []scoreRow
	err := db.Raw(`
		SELECT p.relation AS relation, q.attribute AS attribute, `+scoreExpr+` AS score
		FROM answers a
		JOIN participants p ON a.participant_id = p.id
		JOIN questions q ON a.question_id = q.id
		WHERE a.survey_id = ?
		GROUP BY p.relation, q.attribute
	`, surveyID).Scan(&rows).Error
	return rows, err
}

// attributeScores averages across every participant except the employee
// themselves. A zero surveyID widens the pass to all surveys (benchmark).
func attributeScores(db *gorm.DB, surveyID uint) ([]scoreRow, error) {
	q := `
		SELECT q.attribute AS attribute, ` + scoreExpr + ` AS score
		FROM answers a
		JOIN participants p ON a.participant_id = p.id
		JOIN questions q ON a.question_id = q.id
		WHERE p.relation <> 'self'`
	args := []interface{}{}
	if surveyID != 0 {
		q += ` AND a.survey_id = ?`
		args = append(args, surveyID)
	}
	q += ` GROUP BY q.attribute`

	var rows []scoreRow
	err := db.Raw(q, args...).Scan(&rows).Error
	return rows, err
}

var seriesColors = map[string]string{
	models.RelationSelf:        "rgba(54, 162, 235, 0.4)",
	models.RelationSubordinate: "rgba(255, 159, 64, 0.4)",
	models.RelationPeer:        "rgba(75, 192, 192, 0.4)",
	models.RelationSupervisor:  "rgba(153, 102, 255, 0.4)",
	"total":                    "rgba(255, 99, 132, 0.4)",
	"benchmark":                "rgba(201, 203, 207, 0.4)",
}

type dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
}

// chartData aligns every series to one sorted attribute label list. Labels
// come from the survey's own rows; the benchmark is reindexed to them, so an
// attribute answered only in other surveys never shows up here. A relation
// without a value for a label reports 0, so sparse data cannot misalign the
// series against the labels.
func chartData(perRelation, total, benchmark []scoreRow) (labels []string, sets []dataset) {
	byRelation := map[string]map[string]float64{}
	labelSet := map[string]bool{}

	add := func(relation string, rows []scoreRow, ownAttribute bool) {
		for _, r := range rows {
			if r.Score == nil {
				continue
			}
			if byRelation[relation] == nil {
				byRelation[relation] = map[string]float64{}
			}
			byRelation[relation][r.Attribute] = *r.Score
			if ownAttribute {
				labelSet[r.Attribute] = true
			}
		}
	}
	for _, r := range perRelation {
		add(r.Relation, []scoreRow{r}, true)
	}
	add("total", total, true)
	add("benchmark", benchmark, false)

	for label := range labelSet {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	order := []string{
		models.RelationSelf,
		models.RelationSubordinate,
		models.RelationPeer,
		models.RelationSupervisor,
		"total",
		"benchmark",
	}
	for _, relation := range order {
		scores, ok := byRelation[relation]
		if !ok {
			continue
		}
		data := make([]float64, len(labels))
		for i, label := range labels {
			data[i] = scores[label] // missing cell stays 0
		}
		sets = append(sets, dataset{
			Label:           relation,
			Data:            data,
			BackgroundColor: seriesColors[relation],
		})
	}
	return labels, sets
}

// GET /api/surveys/:id/:token/data
func GetSurveyData(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	// results only exist once the manager closed the survey
	if !survey.IsComplete {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	perRelation, err := relationScores(config.DB, survey.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not aggregate results"})
		return
	}
	total, err := attributeScores(config.DB, survey.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not aggregate results"})
		return
	}
	benchmark, err := attributeScores(config.DB, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not aggregate results"})
		return
	}

	labels, datasets := chartData(perRelation, total, benchmark)
	c.JSON(http.StatusOK, gin.H{
		"labels":   labels,
		"datasets": datasets,
	})
}
