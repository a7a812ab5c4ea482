package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Progress is the per-(session, learner) mastery record. Counters move
// forward under normal answering; only answer-key propagation may rewrite
// them wholesale. Difficulty and weak topics are never touched by
// propagation.
type Progress struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_session_user,unique" json:"session_id"`
	Session         *StudySession  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_session_user,unique" json:"user_id"`
	User            *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CorrectCount    int            `gorm:"column:correct_count;not null;default:0" json:"correct_count"`
	TotalCount      int            `gorm:"column:total_count;not null;default:0" json:"total_count"`
	DifficultyLevel int            `gorm:"column:difficulty_level;not null;default:1" json:"difficulty_level"`
	WeakTopicIDs    datatypes.JSON `gorm:"type:jsonb;column:weak_topic_ids;not null;default:'[]'" json:"weak_topic_ids"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Progress) TableName() string { return "progress" }

func (p *Progress) WeakSet() (TopicSet, error) {
	if len(p.WeakTopicIDs) == 0 {
		return NewTopicSet(), nil
	}
	var s TopicSet
	if err := json.Unmarshal(p.WeakTopicIDs, &s); err != nil {
		return TopicSet{}, fmt.Errorf("decode weak topics: %w", err)
	}
	return s, nil
}

func (p *Progress) SetWeakSet(s TopicSet) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	p.WeakTopicIDs = raw
	return nil
}
