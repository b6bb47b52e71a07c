package models

import "time"

// Answer records one participant's decision on one question. Decision is
// nullable: nil means the participant explicitly skipped the question.
// One answer per (survey, question, participant).
type Answer struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SurveyID      uint      `gorm:"column:survey_id;not null;uniqueIndex:uniq_answer_survey_question_participant" json:"survey_id"`
	QuestionID    uint      `gorm:"column:question_id;not null;uniqueIndex:uniq_answer_survey_question_participant" json:"question_id"`
	ParticipantID uint      `gorm:"column:participant_id;not null;uniqueIndex:uniq_answer_survey_question_participant" json:"participant_id"`
	Decision      *bool     `gorm:"column:decision" json:"decision"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Survey      Survey      `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
	Question    Question    `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Participant Participant `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Answer) TableName() string {
	return "answers"
}
