package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is one generated true/false statement. correct_answer and
// explanation are the only fields an accepted dispute may rewrite, and the
// rewrite happens in place on the same row.
type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	Session       *StudySession  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Statement     string         `gorm:"not null;column:statement" json:"statement"`
	CorrectAnswer bool           `gorm:"column:correct_answer;not null" json:"-"`
	TopicID       int            `gorm:"column:topic_id;not null" json:"topic_id"`
	Explanation   string         `gorm:"not null;column:explanation" json:"-"`
	KeyConcept    string         `gorm:"not null;column:key_concept" json:"key_concept"`
	Difficulty    int            `gorm:"column:difficulty;not null" json:"difficulty"`
	UserAnswer    *bool          `gorm:"column:user_answer" json:"user_answer,omitempty"`
	AnsweredAt    *time.Time     `gorm:"column:answered_at" json:"answered_at,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

func (q *Question) Answered() bool { return q.UserAnswer != nil }
