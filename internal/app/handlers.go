package app

import (
	"github.com/provaloop/studyloop-backend/internal/http/handlers"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Session  *handlers.SessionHandler
	Question *handlers.QuestionHandler
	Dispute  *handlers.DisputeHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   handlers.NewHealthHandler(),
		Session:  handlers.NewSessionHandler(log, services.Assessment),
		Question: handlers.NewQuestionHandler(log, services.Assessment),
		Dispute:  handlers.NewDisputeHandler(log, services.Disputes),
	}
}
