package reactive

import (
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// maxRecursionLimit bounds how many times one job may be re-enqueued during
// a single flush pass before the scheduler fails fatally.
const maxRecursionLimit = 100

// Job is a schedulable unit of work with a stable identity. Queueing the
// same Job twice before it runs is a no-op; that identity is what makes
// deduplication and the recursion guard possible. Effects expose a Job via
// (*Effect).Job; plain functions are adapted with NewJob.
type Job struct {
	id uint64
	fn func()
}

// NewJob wraps fn as a schedulable job with a fresh identity.
func NewJob(fn func()) *Job {
	return &Job{id: nextID(), fn: fn}
}

// ID returns the job's unique identifier.
func (j *Job) ID() uint64 {
	return j.id
}

// flushQueue is the process-wide job queue and post-flush callback queue.
// A flush is requested at most once per pass; jobs run FIFO on a dedicated
// flusher goroutine, the engine's stand-in for a microtask boundary.
type flushQueue struct {
	mu        sync.Mutex
	jobs      []*Job
	queued    mapset.Set[uint64]
	postFlush []*Job
	pending   bool

	// counts records how often each job ran during the current pass.
	counts map[uint64]int
}

var sched = &flushQueue{
	queued: mapset.NewSet[uint64](),
	counts: make(map[uint64]int),
}

// QueueJob appends j to the job queue unless it is already waiting, and
// requests a flush on the next tick.
func QueueJob(j *Job) {
	sched.mu.Lock()
	if !sched.queued.Contains(j.id) {
		sched.queued.Add(j.id)
		sched.jobs = append(sched.jobs, j)
		if m := metricsState.Load(); m != nil {
			m.queueDepth.Set(float64(len(sched.jobs)))
		}
	}
	sched.requestFlush()
	sched.mu.Unlock()
}

// QueuePostFlushCb appends callbacks to run after the job queue drains in
// the current or next flush pass. Duplicate jobs (same identity) queued for
// one pass run once.
func QueuePostFlushCb(cbs ...*Job) {
	sched.mu.Lock()
	sched.postFlush = append(sched.postFlush, cbs...)
	sched.requestFlush()
	sched.mu.Unlock()
}

// FlushPostFlushCbs runs the pending post-flush callbacks synchronously on
// the calling goroutine, deduplicated by job identity.
func FlushPostFlushCbs() {
	sched.mu.Lock()
	post := dedupeJobs(sched.postFlush)
	sched.postFlush = nil
	sched.mu.Unlock()

	for _, j := range post {
		sched.runJob(j)
	}
}

// NextTick returns a channel closed after the next flush pass completes the
// post-flush phase. A non-nil fn runs as a post-flush callback first.
func NextTick(fn func()) <-chan struct{} {
	done := make(chan struct{})
	QueuePostFlushCb(NewJob(func() {
		if fn != nil {
			fn()
		}
		close(done)
	}))
	return done
}

// FlushSync drains the job and post-flush queues on the calling goroutine.
// Primarily a testing and server-rendering aid; the recursion guard applies
// and its fatal error surfaces as a panic on the caller.
func FlushSync() {
	sched.mu.Lock()
	sched.pending = true
	sched.mu.Unlock()
	sched.flush()
}

// requestFlush schedules a flush pass if none is pending. Caller holds mu.
func (q *flushQueue) requestFlush() {
	if q.pending {
		return
	}
	q.pending = true
	go q.flush()
}

// flush dequeues jobs FIFO, then runs post-flush callbacks; callbacks may
// enqueue further jobs, so the loop repeats until both queues are empty.
func (q *flushQueue) flush() {
	jobsRun := 0
	span := startFlushSpan()

	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			post := dedupeJobs(q.postFlush)
			q.postFlush = nil
			if len(post) == 0 {
				q.pending = false
				q.counts = make(map[uint64]int)
				q.mu.Unlock()
				break
			}
			q.mu.Unlock()
			for _, j := range post {
				q.runJob(j)
			}
			continue
		}

		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.queued.Remove(j.id)
		q.counts[j.id]++
		count := q.counts[j.id]
		if m := metricsState.Load(); m != nil {
			m.queueDepth.Set(float64(len(q.jobs)))
		}
		q.mu.Unlock()

		if count > maxRecursionLimit {
			endFlushSpan(span, jobsRun)
			panic(fmt.Errorf(
				"%w: job %d queued more than %d times in one flush pass; "+
					"this usually means state is being mutated during render, update, or a watcher",
				ErrMaxRecursiveUpdates, j.id, maxRecursionLimit))
		}

		q.runJob(j)
		jobsRun++
	}

	if m := metricsState.Load(); m != nil {
		m.flushes.Inc()
	}
	if Debug.LogFlush {
		fmt.Printf("[ripple flush] pass complete, %d jobs\n", jobsRun)
	}
	endFlushSpan(span, jobsRun)
}

// runJob invokes a job under the error-handling context: a panic in the job
// body is routed to the installed error handler, never swallowed.
func (q *flushQueue) runJob(j *Job) {
	defer func() {
		if r := recover(); r != nil {
			handleError(recoveredError(r))
		}
	}()
	j.fn()
}

// dedupeJobs keeps the first occurrence of each job identity, preserving
// order.
func dedupeJobs(jobs []*Job) []*Job {
	if len(jobs) < 2 {
		return jobs
	}
	seen := make(map[uint64]struct{}, len(jobs))
	out := jobs[:0:0]
	for _, j := range jobs {
		if _, dup := seen[j.id]; dup {
			continue
		}
		seen[j.id] = struct{}{}
		out = append(out, j)
	}
	return out
}
