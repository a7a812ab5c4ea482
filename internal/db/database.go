package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/envutil"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New opens the configured database. Postgres is the primary store; sqlite
// keeps local development and the original single-file deployment working.
func New(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DatabaseService")

	driver := strings.ToLower(envutil.String("DB_DRIVER", "postgres"))
	var (
		conn *gorm.DB
		err  error
	)
	switch driver {
	case "sqlite":
		path := envutil.String("SQLITE_PATH", "studyloop.db")
		serviceLog.Info("Connecting to sqlite...", "path", path)
		conn, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	case "postgres":
		host := envutil.String("POSTGRES_HOST", "localhost")
		port := envutil.String("POSTGRES_PORT", "5432")
		user := envutil.String("POSTGRES_USER", "postgres")
		password := envutil.String("POSTGRES_PASSWORD", "")
		name := envutil.String("POSTGRES_NAME", "studyloop")
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

		serviceLog.Info("Connecting to Postgres...")
		conn, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	return &Service{db: conn, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	return s.db.AutoMigrate(
		&domain.User{},
		&domain.StudySession{},
		&domain.Progress{},
		&domain.Question{},
		&domain.Dispute{},
	)
}
