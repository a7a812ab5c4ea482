package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:    uuid.New(),
		Email: email,
		Name:  "Test Learner",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *domain.StudySession {
	tb.Helper()
	s := &domain.StudySession{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      "material.pdf",
		SourceText: "source text",
		Topics: datatypes.JSON([]byte(`[
			{"id":1,"title":"Topic One","importance":"Alta","keyPoints":["a"],"difficulty":1},
			{"id":2,"title":"Topic Two","importance":"Alta","keyPoints":["b"],"difficulty":3}
		]`)),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) *domain.Progress {
	tb.Helper()
	p := &domain.Progress{
		ID:              uuid.New(),
		SessionID:       sessionID,
		UserID:          userID,
		DifficultyLevel: 1,
		WeakTopicIDs:    datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID, topicID int, correct bool) *domain.Question {
	tb.Helper()
	q := &domain.Question{
		ID:            uuid.New(),
		SessionID:     sessionID,
		UserID:        userID,
		Statement:     "statement",
		CorrectAnswer: correct,
		TopicID:       topicID,
		Explanation:   "explanation",
		KeyConcept:    "concept",
		Difficulty:    1,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}
