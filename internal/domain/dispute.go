package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DisputePending  = "pending"
	DisputeAccepted = "accepted"
	DisputeRejected = "rejected"
)

// EvidenceSource is one web hit snapshotted into a dispute. It is never
// persisted on its own and never mutated after the snapshot is taken.
type EvidenceSource struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Excerpt string  `json:"excerpt"`
	Score   float64 `json:"score"`
}

// EvidenceSnapshot is the full evidence bundle gathered for one dispute.
type EvidenceSnapshot struct {
	Sources       []EvidenceSource `json:"sources"`
	AnswerSummary string           `json:"answer_summary,omitempty"`
}

// Dispute is one learner challenge against a question's answer key. A row
// is created in pending state before any external call and finalized exactly
// once when the pipeline reaches a terminal decision; a row that stays
// pending marks an aborted run awaiting manual inspection.
type Dispute struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"question_id"`
	Question           *Question      `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User               *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Argument           string         `gorm:"not null;column:argument" json:"argument"`
	PriorAnswer        bool           `gorm:"column:prior_answer;not null" json:"prior_answer"`
	PriorExplanation   string         `gorm:"column:prior_explanation;not null" json:"prior_explanation"`
	Evidence           datatypes.JSON `gorm:"type:jsonb;column:evidence" json:"evidence,omitempty"`
	Analysis           string         `gorm:"column:analysis" json:"analysis"`
	Decision           string         `gorm:"column:decision;not null;default:'pending'" json:"decision"`
	Confidence         float64        `gorm:"column:confidence;not null;default:0" json:"confidence"`
	SuggestedAnswer    *bool          `gorm:"column:suggested_answer" json:"suggested_answer,omitempty"`
	UpdatedExplanation string         `gorm:"column:updated_explanation" json:"updated_explanation,omitempty"`
	CompletedAt        *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Dispute) TableName() string { return "dispute" }

func (d *Dispute) ParseEvidence() (EvidenceSnapshot, error) {
	if len(d.Evidence) == 0 {
		return EvidenceSnapshot{}, nil
	}
	var snap EvidenceSnapshot
	if err := json.Unmarshal(d.Evidence, &snap); err != nil {
		return EvidenceSnapshot{}, fmt.Errorf("decode evidence snapshot: %w", err)
	}
	return snap, nil
}

func (d *Dispute) SetEvidence(snap EvidenceSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	d.Evidence = raw
	return nil
}
