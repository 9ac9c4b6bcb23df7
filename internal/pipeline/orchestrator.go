package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/clausegest/internal/config"
	"github.com/dgallion1/clausegest/internal/metrics"
)

// Orchestrator manages the document ingestion pipeline.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	store  Store
	stats  *LatencyStats
	log    *slog.Logger
	cfg    config.Config
	worker *Worker

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex // guards stopped and sends on queue
	stopped bool
}

// ErrStopped is returned by Submit once the orchestrator is shutting down.
var ErrStopped = errors.New("pipeline is shutting down")

// NewOrchestrator creates the pipeline. store may be nil, in which case
// jobs stop after segmentation and nothing is published.
func NewOrchestrator(cfg config.Config, store Store, log *slog.Logger) *Orchestrator {
	stats := NewLatencyStats(time.Hour)
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		store:  store,
		stats:  stats,
		log:    log,
		cfg:    cfg,
		worker: NewWorker(store, log, stats, WorkerOptions{
			Prefix:             cfg.PathstorePrefix,
			MaxConcurrentStore: cfg.MaxConcurrentStore,
			PDFFallback:        cfg.PDFFallbackPdftotext,
			DefaultTitle:       cfg.DefaultTitle,
		}),
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					metrics.SetQueueDepth(len(o.queue))
					o.worker.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Later calls to Submit fail with
// ErrStopped; calling Stop again is a no-op.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "shutdown")
		return ErrStopped
	}
	select {
	case o.queue <- job:
		metrics.SetQueueDepth(len(o.queue))
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Store returns the clause store for direct use by API handlers. It is nil
// when publishing is disabled.
func (o *Orchestrator) Store() Store {
	return o.store
}

// Prefix is the key prefix documents are published under.
func (o *Orchestrator) Prefix() string {
	return o.cfg.PathstorePrefix
}

// Stats returns the rolling processing-time statistics.
func (o *Orchestrator) Stats() *LatencyStats {
	return o.stats
}

// Worker exposes the shared worker for synchronous conversions.
func (o *Orchestrator) Worker() *Worker {
	return o.worker
}

// TrackedJobs returns how many jobs are held in memory.
func (o *Orchestrator) TrackedJobs() int {
	return o.jobs.Len()
}
