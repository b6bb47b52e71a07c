package models

import (
	"strings"
	"time"
)

// Connotation: true means "yes" is the favorable answer, false means "no" is.
type Question struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Text        string    `gorm:"column:text;size:79;uniqueIndex;not null" json:"text"`
	Attribute   string    `gorm:"column:attribute;size:30;index;not null" json:"attribute"`
	Connotation bool      `gorm:"column:connotation;not null;default:true" json:"connotation"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// "himself" must come before "him"/"his" so the longer form wins.
var femalePronouns = strings.NewReplacer(
	"himself", "herself",
	"him", "her",
	"his", "her",
)

// Display returns the question text with pronouns adjusted to the
// employee the survey is about.
func (q Question) Display(s Survey) string {
	if s.EmployeeGender != GenderFemale {
		return q.Text
	}
	return femalePronouns.Replace(q.Text)
}
