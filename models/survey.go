package models

import "time"

const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderOther  = "other"
)

type Survey struct {
	ID                   uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EmployeeName         string    `gorm:"column:employee_name;size:30;not null" json:"employee_name"`
	EmployeeGender       string    `gorm:"column:employee_gender;size:6;default:'other'" json:"employee_gender"`
	EmployeeEmail        string    `gorm:"column:employee_email;size:254;not null" json:"employee_email"`
	ManagerEmail         string    `gorm:"column:manager_email;size:254;not null" json:"manager_email"`
	IsComplete           bool      `gorm:"column:is_complete;not null;default:false" json:"is_complete"`
	ParticipantCanSkip   bool      `gorm:"column:participant_can_skip;not null;default:false" json:"participant_can_skip"`
	ShowQuestionProgress bool      `gorm:"column:show_question_progress;not null;default:false" json:"show_question_progress"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Participants []Participant `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
	Answers      []Answer      `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Survey) TableName() string {
	return "surveys"
}
