package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/util"
)

// FileJob represents a file to be analyzed by the worker pool.
type FileJob struct {
	FilePath string
	JobID    int
}

// JobResult carries the extraction result for a file.
type JobResult struct {
	FilePath string
	Result   *extractor.FileResult
	JobID    int
}

// WorkerPool analyzes files on a fixed set of goroutines.
//
// **Architecture:**
//   - Buffered jobs channel feeds numWorkers goroutines
//   - Separate result and error channels
//   - Cancelling the parent context stops workers after their current file
//
// **Usage:**
//
//	pool := NewWorkerPool(ctx, 0, ex, logger)
//	pool.Start()
//	defer pool.Stop()
//
//	go func() {
//	    defer pool.FinishSubmitting()
//	    for i, file := range files {
//	        pool.Submit(FileJob{FilePath: file, JobID: i})
//	    }
//	}()
//
//	for i := 0; i < len(files); i++ {
//	    select {
//	    case result := <-pool.Results():
//	        // index result
//	    case fileErr := <-pool.Errors():
//	        // record error
//	    }
//	}
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan JobResult
	errors     chan FileError
	wg         sync.WaitGroup
	extractor  *extractor.Extractor
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a worker pool bound to ctx.
//
// numWorkers <= 0 uses util.GetOptimalPoolSize(), the same size as the
// parser pools, so workers never wait on a parser.
func NewWorkerPool(ctx context.Context, numWorkers int, ex *extractor.Extractor, logger *slog.Logger) *WorkerPool {
	numWorkers = util.PoolSizeOrDefault(numWorkers)
	if logger == nil {
		logger = slog.Default()
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan JobResult, numWorkers),
		errors:     make(chan FileError, numWorkers),
		extractor:  ex,
		logger:     logger,
		ctx:        poolCtx,
		cancel:     cancel,
	}
}

// Start spawns the worker goroutines. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}

	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

// processJob analyzes one file. Sources are read through the extractor's
// file cache, so a rescan of unchanged files skips the disk.
func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	result, err := wp.extractor.ExtractPath(job.FilePath)
	if err != nil {
		wp.logger.Debug("extraction failed", "worker_id", workerID, "file", job.FilePath, "error", err)
		wp.jobsFailed.Add(1)
		select {
		case wp.errors <- FileError{FilePath: job.FilePath, Error: err}:
		case <-wp.ctx.Done():
		}
		return
	}

	wp.jobsProcessed.Add(1)
	select {
	case wp.results <- JobResult{FilePath: job.FilePath, Result: result, JobID: job.JobID}:
	case <-wp.ctx.Done():
	}
}

// Submit enqueues a job, blocking while the queue is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled: %w", wp.ctx.Err())
	case wp.jobs <- job:
		wp.jobsSubmitted.Add(1)
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan JobResult {
	return wp.results
}

// Errors returns the errors channel.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the jobs channel so workers exit once the queue is
// drained. Idempotent. Must not race with Submit.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
		wp.logger.Debug("jobs channel closed", "total_submitted", wp.jobsSubmitted.Load())
	}
}

// Wait blocks until all workers have exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop cancels outstanding work, waits for the workers and closes the
// result channels. Idempotent. Results not yet consumed are dropped.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	wp.cancel()
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)

	wp.logger.Debug("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
		ResultsQueued: len(wp.results),
		ErrorsQueued:  len(wp.errors),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int // Current jobs in queue
	ResultsQueued int // Results waiting to be consumed
	ErrorsQueued  int // Errors waiting to be consumed
}
