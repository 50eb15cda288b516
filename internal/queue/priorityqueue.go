package queue

import (
	"container/heap"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScanJob is one unit of deferred OCR/scan work: a source path, its
// scheduling priority, and retry bookkeeping. Distinct from the Redis
// queue's Job type above, which carries the teacher's cloud-scan
// request shape; ScanJob is the spec's generic priority-queue payload.
type ScanJob struct {
	ID         uuid.UUID
	Path       string
	Priority   int
	Attempts   int
	LastError  string
	Metadata   map[string]string

	seq int64 // FIFO tiebreaker, assigned at enqueue
}

// ErrQueueFull is returned by non-blocking Enqueue when the queue is at capacity.
var ErrQueueFull = fmt.Errorf("priority queue full")

// ErrQueueStopped is returned once Stop has been called.
var ErrQueueStopped = fmt.Errorf("priority queue stopped")

// jobHeap is a max-heap on (Priority desc, seq asc) — higher priority
// dequeues first, ties broken FIFO by enqueue order.
type jobHeap []*ScanJob

func (h jobHeap) Len() int { return len(h) }
func (h jobHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].seq < h[j].seq
}
func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *jobHeap) Push(x any)   { *h = append(*h, x.(*ScanJob)) }
func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PriorityQueue is a thread-safe, bounded max-priority queue of ScanJobs
// with duplicate suppression by job ID, pause/resume/stop lifecycle, and
// a configurable worker pool.
type PriorityQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	heap     jobHeap
	ids      map[uuid.UUID]bool
	capacity int
	nextSeq  int64

	paused  bool
	stopped bool

	maxRetries int

	droppedCount int64
}

// PriorityQueueConfig tunes a PriorityQueue.
type PriorityQueueConfig struct {
	Capacity   int // 0 means unbounded
	MaxRetries int
}

// NewPriorityQueue constructs a PriorityQueue. Capacity <= 0 means unbounded.
func NewPriorityQueue(cfg PriorityQueueConfig) *PriorityQueue {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	q := &PriorityQueue{
		ids:        map[uuid.UUID]bool{},
		capacity:   cfg.Capacity,
		maxRetries: cfg.MaxRetries,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Enqueue adds job to the queue. If block is false and the queue is at
// capacity, ErrQueueFull is returned and the dropped counter increments.
// If block is true, Enqueue waits up to timeout (0 means wait forever)
// for room. Duplicate job IDs are rejected outright, blocking or not.
func (q *PriorityQueue) Enqueue(job *ScanJob, block bool, timeout time.Duration) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return false, ErrQueueStopped
	}
	if q.ids[job.ID] {
		return false, nil
	}

	if q.capacity > 0 && len(q.heap) >= q.capacity {
		if !block {
			q.droppedCount++
			return false, ErrQueueFull
		}
		deadline := time.Time{}
		if timeout > 0 {
			deadline = time.Now().Add(timeout)
		}
		for q.capacity > 0 && len(q.heap) >= q.capacity && !q.stopped {
			if !deadline.IsZero() && time.Now().After(deadline) {
				q.droppedCount++
				return false, ErrQueueFull
			}
			q.notFull.Wait()
		}
		if q.stopped {
			return false, ErrQueueStopped
		}
	}

	job.seq = q.nextSeq
	q.nextSeq++
	q.ids[job.ID] = true
	heap.Push(&q.heap, job)
	q.notEmpty.Signal()
	return true, nil
}

// Dequeue removes and returns the highest-priority job. If block is
// false and the queue is empty (or paused), it returns immediately with
// ok=false. If block is true, it waits up to timeout (0 means forever).
func (q *PriorityQueue) Dequeue(block bool, timeout time.Duration) (job *ScanJob, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ready := func() bool { return !q.paused && len(q.heap) > 0 }

	if !ready() {
		if !block || q.stopped {
			return nil, false
		}
		deadline := time.Time{}
		if timeout > 0 {
			deadline = time.Now().Add(timeout)
		}
		for !ready() {
			if q.stopped {
				return nil, false
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				return nil, false
			}
			q.notEmpty.Wait()
		}
	}
	if q.stopped || !ready() {
		return nil, false
	}

	j := heap.Pop(&q.heap).(*ScanJob)
	delete(q.ids, j.ID)
	q.notFull.Signal()
	return j, true
}

// Requeue increments attempts, lowers priority by 5, and records
// lastErr. If attempts has reached max_retries, the job is considered
// permanently failed and is not re-queued; Requeue returns false.
func (q *PriorityQueue) Requeue(job *ScanJob, lastErr string) bool {
	job.Attempts++
	job.LastError = lastErr
	job.Priority -= 5

	if job.Attempts >= q.maxRetries {
		return false
	}

	// Requeue bypasses the capacity block: a job already in flight must
	// not be dropped for lack of room, it has already consumed a slot.
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return false
	}
	job.seq = q.nextSeq
	q.nextSeq++
	q.ids[job.ID] = true
	heap.Push(&q.heap, job)
	q.notEmpty.Signal()
	return true
}

// Pause stops Dequeue from yielding jobs until Resume is called.
// In-flight workers finish their current job; they simply block on the
// next Dequeue.
func (q *PriorityQueue) Pause() {
	q.mu.Lock()
	q.paused = true
	q.mu.Unlock()
}

// Resume reverses Pause and wakes any blocked dequeuers.
func (q *PriorityQueue) Resume() {
	q.mu.Lock()
	q.paused = false
	q.mu.Unlock()
	q.notEmpty.Broadcast()
}

// Stop drains pending waiters and marks the queue terminated; further
// Enqueue/Dequeue calls fail immediately.
func (q *PriorityQueue) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len returns the current number of queued jobs.
func (q *PriorityQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Dropped returns how many non-blocking Enqueue calls were rejected for
// lack of capacity.
func (q *PriorityQueue) Dropped() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.droppedCount
}

// ProcessFunc does the actual work for one job.
type ProcessFunc func(job *ScanJob) error

// OnComplete is called after ProcessFunc succeeds.
type OnComplete func(job *ScanJob)

// OnError is called after ProcessFunc fails and before any requeue decision.
type OnError func(job *ScanJob, err error)

// WorkerPool runs a configurable number of goroutines pulling from a
// PriorityQueue, following the same start/stop/WaitGroup shape as the
// Redis-backed Worker above, generalized to run arbitrary process
// functions instead of one fixed cloud-scan routine.
type WorkerPool struct {
	queue      *PriorityQueue
	numWorkers int
	process    ProcessFunc
	onComplete OnComplete
	onError    OnError

	wg      sync.WaitGroup
	stopCh  chan struct{}
	running bool
	mu      sync.Mutex
}

// NewWorkerPool builds a pool of numWorkers goroutines around queue.
func NewWorkerPool(q *PriorityQueue, numWorkers int, process ProcessFunc, onComplete OnComplete, onError OnError) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &WorkerPool{
		queue:      q,
		numWorkers: numWorkers,
		process:    process,
		onComplete: onComplete,
		onError:    onError,
	}
}

// Start launches the worker goroutines. Safe to call once; a second
// call while already running is a no-op.
func (p *WorkerPool) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.mu.Unlock()

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.loop(i)
	}
}

// Stop signals every worker goroutine to exit and waits for them to drain.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *WorkerPool) loop(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		default:
		}

		job, ok := p.queue.Dequeue(true, 500*time.Millisecond)
		if !ok {
			continue
		}

		if err := p.runOne(job); err != nil {
			if p.onError != nil {
				p.onError(job, err)
			}
			if !p.queue.Requeue(job, err.Error()) {
				log.Printf("[worker-%d] job %s permanently failed after %d attempts: %v", id, job.ID, job.Attempts, err)
			}
			continue
		}
		if p.onComplete != nil {
			p.onComplete(job)
		}
	}
}

// runOne recovers a panicking process function into an error, the same
// per-task isolation the orchestrator's detector fan-out relies on.
func (p *WorkerPool) runOne(job *ScanJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("process_fn panicked: %v", r)
		}
	}()
	return p.process(job)
}
