package app

import (
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/modules/assessment"
	"github.com/provaloop/studyloop-backend/internal/modules/dispute"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type Services struct {
	Assessment assessment.Usecases
	Disputes   dispute.Usecases
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	assessmentUC := assessment.New(assessment.UsecasesDeps{
		DB:        db,
		Log:       log.With("module", "assessment"),
		AI:        clients.AI,
		Sessions:  reposet.Sessions,
		Progress:  reposet.Progress,
		Questions: reposet.Questions,
		Cfg: assessment.Config{
			WeakTopicBias:    cfg.Engine.WeakTopicBias,
			SourceTextLimit:  cfg.Engine.SourceTextLimit,
			ExtractTextLimit: cfg.Engine.ExtractTextLimit,
			SessionListLimit: cfg.Engine.SessionListLimit,
		},
	})

	var locker dispute.QuestionLocker
	if clients.Redis != nil {
		locker = dispute.NewRedisLocker(clients.Redis)
	} else {
		locker = dispute.NewLocalLocker()
	}

	disputeUC := dispute.New(dispute.UsecasesDeps{
		DB:        db,
		Log:       log.With("module", "dispute"),
		AI:        clients.AI,
		Search:    clients.Search,
		Locks:     locker,
		Progress:  reposet.Progress,
		Questions: reposet.Questions,
		Disputes:  reposet.Disputes,
		Cfg: dispute.Config{
			MaxDisputes:        cfg.Dispute.MaxDisputes,
			AcceptConfidence:   cfg.Dispute.AcceptConfidence,
			MinArgumentLen:     cfg.Dispute.MinArgumentLen,
			SearchDepth:        cfg.Dispute.SearchDepth,
			SearchMaxResults:   cfg.Dispute.SearchMaxResults,
			PropagationWorkers: cfg.Dispute.PropagationWorkers,
		},
	})

	return Services{Assessment: assessmentUC, Disputes: disputeUC}
}
