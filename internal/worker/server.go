// Package worker runs the asynq server that drains the background
// queues: stroke persistence and the retention sweep.
package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"collab-canvas/internal/repository"
	"collab-canvas/internal/tasks"
)

// Server wraps the asynq worker server and its handler wiring.
type Server struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	handler *strokeHandler
	log     *logrus.Entry
}

func NewServer(redisOpt asynq.RedisClientOpt, strokeRepo repository.StrokeRepository, retentionHours int, logger *logrus.Logger) *Server {
	logEntry := logger.WithField("component", "worker")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueCritical: 6,
				tasks.QueueDefault:  3,
				tasks.QueueLow:      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	handler := newStrokeHandler(strokeRepo, retentionHours, logEntry)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeStrokePersist, handler.HandleStrokePersist)
	mux.HandleFunc(tasks.TypeStrokeRetention, handler.HandleStrokeRetention)

	return &Server{server: server, mux: mux, handler: handler, log: logEntry}
}

// Start launches the worker loop; it returns once the server has
// started its internal goroutines.
func (s *Server) Start() error {
	s.log.Info("Worker server starting")
	return s.server.Start(s.mux)
}

// Shutdown drains in-flight tasks and stops the server.
func (s *Server) Shutdown() {
	s.log.Info("Worker server shutting down")
	s.server.Shutdown()
}
