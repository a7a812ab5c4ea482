package db

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

// The sqlite fallback must migrate and accept writes; sqlite rejects
// function-call column defaults, so the models cannot carry any.
func TestSqliteAutoMigrate(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "studyloop_test.db"))

	log, err := logger.New("dev")
	if err != nil {
		t.Fatal(err)
	}
	svc, err := New(log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("automigrate on sqlite: %v", err)
	}

	user := &domain.User{ID: uuid.New(), Email: "sqlite@example.com", Name: "Sqlite"}
	if err := svc.DB().Create(user).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}

	session := &domain.StudySession{
		ID:         uuid.New(),
		UserID:     user.ID,
		Title:      "Constitutional Law",
		SourceText: "text",
		Topics:     []byte(`[]`),
	}
	if err := svc.DB().Create(session).Error; err != nil {
		t.Fatalf("insert session: %v", err)
	}

	var got domain.StudySession
	if err := svc.DB().Where("id = ?", session.ID).First(&got).Error; err != nil {
		t.Fatalf("read back session: %v", err)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not populated: %+v", got)
	}
}

func TestUnknownDriverRejected(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	log, err := logger.New("dev")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(log); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
