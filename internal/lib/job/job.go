// Package job runs background work on asynq, a Redis-backed task queue.
//
// Request handlers enqueue tasks through JobService.Client; the worker side
// (JobService.Start) pulls them from Redis and runs the registered handlers.
package job

import (
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/rentaldesk/internal/config"
)

// Queue names, in priority order.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// JobService owns the asynq client and worker server.
type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	logger *zerolog.Logger

	auditStore AuditStore
}

// NewJobService connects both sides of the queue to the configured Redis.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	// Ten workers shared 6:3:1 across the queues.
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
		Logger: newAsynqLogger(logger),
	})

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// InitHandlers gives the task handlers their dependencies. It must be called
// before Start.
func (j *JobService) InitHandlers(auditStore AuditStore) {
	j.auditStore = auditStore
}

// Start registers the handlers and starts the workers in the background.
func (j *JobService) Start() error {
	if j.auditStore == nil {
		return errors.New("job handlers not initialized")
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskConsoleAudit, j.handleConsoleAuditTask)

	j.logger.Info().Msg("starting background job server")

	return j.server.Start(mux)
}

// Stop waits for running tasks, then closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
