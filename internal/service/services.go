package service

import (
	"github.com/deppfellow/rentaldesk/internal/lib/job"
	"github.com/deppfellow/rentaldesk/internal/repository"
	"github.com/deppfellow/rentaldesk/internal/server"
)

type Services struct {
	Console   *ConsoleService
	Dashboard *DashboardService
	Job       *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var auditor Auditor
	if s.Config.Console.AuditEnabled {
		auditor = s.Job
	}

	var cache Cache
	if s.Redis != nil {
		cache = NewRedisCache(s.Redis)
	}

	return &Services{
		Console:   NewConsoleService(repos.Console, auditor, s.Config.Observability.Logging.SlowQueryThreshold),
		Dashboard: NewDashboardService(repos.Dashboard, cache, s.Config.Dashboard),
		Job:       s.Job,
	}, nil
}
