package models

import "time"

const (
	RelationSelf        = "self"
	RelationSubordinate = "subordinate"
	RelationPeer        = "peer"
	RelationSupervisor  = "supervisor"
)

func ValidRelation(r string) bool {
	switch r {
	case RelationSelf, RelationSubordinate, RelationPeer, RelationSupervisor:
		return true
	}
	return false
}

type Participant struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"column:email;size:254;not null;uniqueIndex:uniq_participant_email_survey" json:"email"`
	SurveyID  uint      `gorm:"column:survey_id;not null;uniqueIndex:uniq_participant_email_survey" json:"survey_id"`
	Relation  string    `gorm:"column:relation;size:11;not null" json:"relation"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Survey  Survey   `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
	Answers []Answer `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Participant) TableName() string {
	return "participants"
}
