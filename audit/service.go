// audit/service.go
package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/keystone/logging"
)

type Service interface {
	LogAccess(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, q Query) ([]AuditLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogAccess(ctx context.Context, log AuditLog) error {
	return s.repo.LogAccess(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, q Query) ([]AuditLog, error) {
	return s.repo.QueryLogs(ctx, q)
}

// Recorder ships audit logs to a Service from a background worker so that
// request handling never waits on the audit store. Logs are dropped when the
// queue is full or the recorder is closed.
type Recorder struct {
	svc     Service
	queue   chan AuditLog
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewRecorder(svc Service, buffer int, timeout time.Duration) *Recorder {
	if buffer <= 0 {
		buffer = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := &Recorder{
		svc:     svc,
		queue:   make(chan AuditLog, buffer),
		timeout: timeout,
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record enqueues log and reports whether it was accepted.
func (r *Recorder) Record(log AuditLog) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}
	select {
	case r.queue <- log:
		return true
	default:
		logger.Warn("Audit queue full, dropping log",
			zap.String("operation", log.Operation),
			zap.String("decision", log.Decision))
		return false
	}
}

// Close stops accepting logs and waits for queued ones to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for log := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		if err := r.svc.LogAccess(ctx, log); err != nil {
			logger.Error("Failed to write audit log",
				zap.Error(err),
				zap.String("operation", log.Operation))
		}
		cancel()
	}
}
