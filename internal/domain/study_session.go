package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudySession is one body of study material: its extracted core topics plus
// the raw source text questions are generated from. Created once at
// ingestion and immutable afterwards except for the updated_at refresh.
type StudySession struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title      string         `gorm:"not null;column:title" json:"title"`
	SourceText string         `gorm:"not null;column:source_text" json:"-"`
	Topics     datatypes.JSON `gorm:"type:jsonb;column:topics;not null" json:"topics"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudySession) TableName() string { return "study_session" }

func (s *StudySession) ParseTopics() ([]Topic, error) {
	return ParseTopics(s.Topics)
}
