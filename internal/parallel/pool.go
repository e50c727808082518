// Package parallel runs independent csolve.Model solves concurrently.
// Spec.md §5 keeps the core single-threaded per solve ("no parallelism
// within the core"); a host that wants to explore several models at
// once — a portfolio of different search configurations, or several
// unrelated problems — submits them here instead.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gitrdm/fdcsolve/pkg/csolve"
)

// Pool is a fixed-size worker pool for running independent solves.
// Adapted from the teacher's StaticWorkerPool (internal/parallel/pool.go):
// the dynamic-scaling, work-stealing, rate-limiting, load-balancing and
// deadlock-detection machinery built around that pool had no use here —
// a portfolio solve is a short, bounded batch of CPU-bound calls, not a
// long-lived stream of goal-evaluation tasks — so only the fixed worker
// loop and a trimmed statistics collector survive the adaptation.
type Pool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
	stats        *Stats
}

// NewPool creates a pool with the given number of workers. A
// non-positive count defaults to the number of CPU cores.
func NewPool(maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	p := &Pool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
		stats:        NewStats(),
	}
	for i := 0; i < maxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workerWg.Done()
	for {
		select {
		case task := <-p.taskChan:
			if task != nil {
				start := time.Now()
				task()
				p.stats.recordCompleted(time.Since(start))
			}
		case <-p.shutdownChan:
			return
		}
	}
}

func (p *Pool) submit(ctx context.Context, task func()) error {
	// A pool that already finished Shutdown has no workers left to drain
	// taskChan, so a queued task would sit forever; check first rather
	// than let the select below race a send against that closure.
	select {
	case <-p.shutdownChan:
		p.stats.recordCancelled()
		return ErrPoolShutdown
	default:
	}

	p.stats.recordSubmitted()
	select {
	case p.taskChan <- task:
		return nil
	case <-ctx.Done():
		p.stats.recordCancelled()
		return ctx.Err()
	case <-p.shutdownChan:
		p.stats.recordCancelled()
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones to finish.
// It closes only shutdownChan, not taskChan: a submit racing this call
// must never select a send on a closed channel, which panics.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.shutdownChan)
		p.workerWg.Wait()
		p.stats.finalize()
	})
}

// GetWorkerCount returns the pool's fixed worker count.
func (p *Pool) GetWorkerCount() int { return p.maxWorkers }

// GetStats returns the pool's execution statistics.
func (p *Pool) GetStats() *Stats { return p.stats }

// ErrPoolShutdown is returned when submitting to a shut-down pool.
var ErrPoolShutdown = fmt.Errorf("worker pool has been shutdown")

// Task is one independent model to solve. Objective is optional and
// used only by Best to rank ResultSolution outcomes against each
// other; leave it nil for plain satisfaction problems, where the
// first solution found is as good as any other.
type Task struct {
	Name      string
	Model     *csolve.Model
	Objective *csolve.Objective
}

// Outcome is Task's result: a SolveResult, or an error — either the
// validation error Model.Solve returned (spec.md §7's first error kind)
// or, for a task that never reached a worker, the submit error
// (ErrPoolShutdown or ctx.Err()).
type Outcome struct {
	Name   string
	Result csolve.SolveResult
	Err    error
}

// Run solves every task concurrently, bounded by the pool's worker
// count, and returns outcomes in the same order as tasks. It blocks
// until every submitted task has finished. Once ctx is cancelled, tasks
// not yet handed to the pool get an Outcome carrying ctx.Err(); tasks
// already handed over still run, with Solve seeing the cancelled ctx.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))
	var wg sync.WaitGroup
	for i, t := range tasks {
		i, t := i, t
		wg.Add(1)
		err := p.submit(ctx, func() {
			defer wg.Done()
			res, err := t.Model.Solve(ctx)
			outcomes[i] = Outcome{Name: t.Name, Result: res, Err: err}
		})
		if err != nil {
			wg.Done()
			outcomes[i] = Outcome{Name: t.Name, Err: err}
		}
	}
	wg.Wait()
	return outcomes
}

// Best returns the outcome with the best objective value among those
// that reached ResultSolution, comparing by its own Task.Objective
// (all outcomes must share the same optimization direction). Ties
// keep the earlier outcome. Reports false if no task solved.
func Best(outcomes []Outcome, tasks []Task) (Outcome, bool) {
	var best Outcome
	var bestVal float64
	found := false
	for i, o := range outcomes {
		if o.Result.Kind != csolve.ResultSolution {
			continue
		}
		obj := tasks[i].Objective
		if obj == nil {
			if !found {
				best, found = o, true
			}
			continue
		}
		val := o.Result.Solution.Float(obj.Var)
		better := !found ||
			(obj.Maximize && val > bestVal) ||
			(!obj.Maximize && val < bestVal)
		if better {
			best, bestVal, found = o, val, true
		}
	}
	return best, found
}

// Stats accumulates counters over a Pool's lifetime, trimmed from the
// teacher's ExecutionStats (internal/parallel/pool.go) down to the
// fields a fixed-size pool can actually produce: no scaling events, no
// deadlock alerts, no per-worker queue-depth history.
type Stats struct {
	mu sync.RWMutex

	StartTime          time.Time
	EndTime            time.Time
	TotalExecutionTime time.Duration

	TasksSubmitted int64
	TasksCompleted int64
	TasksCancelled int64

	AverageTaskDuration time.Duration
	TasksPerSecond      float64

	taskDurationHistory []time.Duration
}

// NewStats creates a fresh statistics collector.
func NewStats() *Stats {
	return &Stats{
		StartTime:           time.Now(),
		taskDurationHistory: make([]time.Duration, 0, 64),
	}
}

func (s *Stats) recordSubmitted() { atomic.AddInt64(&s.TasksSubmitted, 1) }
func (s *Stats) recordCancelled() { atomic.AddInt64(&s.TasksCancelled, 1) }

func (s *Stats) recordCompleted(d time.Duration) {
	atomic.AddInt64(&s.TasksCompleted, 1)
	s.mu.Lock()
	s.taskDurationHistory = append(s.taskDurationHistory, d)
	s.mu.Unlock()
}

func (s *Stats) finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.EndTime = time.Now()
	s.TotalExecutionTime = s.EndTime.Sub(s.StartTime)

	if len(s.taskDurationHistory) > 0 {
		var total time.Duration
		for _, d := range s.taskDurationHistory {
			total += d
		}
		s.AverageTaskDuration = total / time.Duration(len(s.taskDurationHistory))
	}
	if s.TotalExecutionTime > 0 {
		s.TasksPerSecond = float64(atomic.LoadInt64(&s.TasksCompleted)) / s.TotalExecutionTime.Seconds()
	}
}

// GetStats returns a snapshot of the current counters.
func (s *Stats) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
		TotalExecutionTime:  s.TotalExecutionTime,
		TasksSubmitted:      atomic.LoadInt64(&s.TasksSubmitted),
		TasksCompleted:      atomic.LoadInt64(&s.TasksCompleted),
		TasksCancelled:      atomic.LoadInt64(&s.TasksCancelled),
		AverageTaskDuration: s.AverageTaskDuration,
		TasksPerSecond:      s.TasksPerSecond,
		taskDurationHistory: append([]time.Duration(nil), s.taskDurationHistory...),
	}
}

// String renders a compact human-readable summary, grounded on the
// teacher's ExecutionStats.String().
func (s *Stats) String() string {
	stats := s.GetStats()
	return fmt.Sprintf(
		"submitted=%d completed=%d cancelled=%d avg_duration=%s throughput=%.1f/s elapsed=%s",
		stats.TasksSubmitted, stats.TasksCompleted, stats.TasksCancelled,
		stats.AverageTaskDuration, stats.TasksPerSecond, stats.TotalExecutionTime,
	)
}
