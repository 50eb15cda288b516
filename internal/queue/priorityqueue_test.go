package queue

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPriorityQueue_HigherPriorityDequeuesFirst(t *testing.T) {
	q := NewPriorityQueue(PriorityQueueConfig{})
	low := &ScanJob{ID: uuid.New(), Priority: 1}
	high := &ScanJob{ID: uuid.New(), Priority: 10}

	if ok, err := q.Enqueue(low, false, 0); !ok || err != nil {
		t.Fatalf("enqueue low: ok=%v err=%v", ok, err)
	}
	if ok, err := q.Enqueue(high, false, 0); !ok || err != nil {
		t.Fatalf("enqueue high: ok=%v err=%v", ok, err)
	}

	job, ok := q.Dequeue(false, 0)
	if !ok || job.ID != high.ID {
		t.Fatalf("expected high-priority job first, got %+v", job)
	}
}

func TestPriorityQueue_TiesBrokenFIFO(t *testing.T) {
	q := NewPriorityQueue(PriorityQueueConfig{})
	first := &ScanJob{ID: uuid.New(), Priority: 5}
	second := &ScanJob{ID: uuid.New(), Priority: 5}
	q.Enqueue(first, false, 0)
	q.Enqueue(second, false, 0)

	job, _ := q.Dequeue(false, 0)
	if job.ID != first.ID {
		t.Error("expected FIFO tiebreak to dequeue the first-enqueued job")
	}
}

func TestPriorityQueue_DuplicateJobIDRejected(t *testing.T) {
	q := NewPriorityQueue(PriorityQueueConfig{})
	id := uuid.New()
	ok1, err1 := q.Enqueue(&ScanJob{ID: id, Priority: 1}, false, 0)
	ok2, err2 := q.Enqueue(&ScanJob{ID: id, Priority: 9}, false, 0)

	if !ok1 || err1 != nil {
		t.Fatalf("expected first enqueue to succeed, got ok=%v err=%v", ok1, err1)
	}
	if ok2 || err2 != nil {
		t.Fatalf("expected duplicate enqueue to return false,nil, got ok=%v err=%v", ok2, err2)
	}
	if q.Len() != 1 {
		t.Errorf("expected queue length 1, got %d", q.Len())
	}
}

func TestPriorityQueue_NonBlockingEnqueueFailsWhenFull(t *testing.T) {
	q := NewPriorityQueue(PriorityQueueConfig{Capacity: 1})
	q.Enqueue(&ScanJob{ID: uuid.New()}, false, 0)

	ok, err := q.Enqueue(&ScanJob{ID: uuid.New()}, false, 0)
	if ok || err != ErrQueueFull {
		t.Fatalf("expected ErrQueueFull, got ok=%v err=%v", ok, err)
	}
	if q.Dropped() != 1 {
		t.Errorf("expected dropped counter 1, got %d", q.Dropped())
	}
}

func TestPriorityQueue_Requeue_LowersPriorityAndIncrementsAttempts(t *testing.T) {
	q := NewPriorityQueue(PriorityQueueConfig{MaxRetries: 3})
	job := &ScanJob{ID: uuid.New(), Priority: 10}

	if !q.Requeue(job, "boom") {
		t.Fatal("expected requeue to succeed under max_retries")
	}
	if job.Priority != 5 || job.Attempts != 1 || job.LastError != "boom" {
		t.Errorf("unexpected job state after requeue: %+v", job)
	}
}

func TestPriorityQueue_Requeue_PermanentlyFailsAfterMaxRetries(t *testing.T) {
	q := NewPriorityQueue(PriorityQueueConfig{MaxRetries: 2})
	job := &ScanJob{ID: uuid.New()}

	if !q.Requeue(job, "err1") {
		t.Fatal("expected first requeue to succeed")
	}
	if q.Requeue(job, "err2") {
		t.Fatal("expected second requeue to report permanent failure")
	}
	if job.Attempts != 2 {
		t.Errorf("expected attempts=2, got %d", job.Attempts)
	}
}

func TestPriorityQueue_PauseResume(t *testing.T) {
	q := NewPriorityQueue(PriorityQueueConfig{})
	q.Enqueue(&ScanJob{ID: uuid.New(), Priority: 1}, false, 0)

	q.Pause()
	if _, ok := q.Dequeue(false, 0); ok {
		t.Fatal("expected dequeue to yield nothing while paused")
	}
	q.Resume()
	if _, ok := q.Dequeue(false, 0); !ok {
		t.Fatal("expected dequeue to succeed after resume")
	}
}

func TestPriorityQueue_BlockingDequeueWakesOnEnqueue(t *testing.T) {
	q := NewPriorityQueue(PriorityQueueConfig{})
	done := make(chan *ScanJob, 1)

	go func() {
		job, ok := q.Dequeue(true, 2*time.Second)
		if ok {
			done <- job
		} else {
			done <- nil
		}
	}()

	time.Sleep(20 * time.Millisecond)
	q.Enqueue(&ScanJob{ID: uuid.New(), Priority: 1}, false, 0)

	select {
	case job := <-done:
		if job == nil {
			t.Fatal("expected blocking dequeue to receive the enqueued job")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for blocking dequeue")
	}
}

func TestWorkerPool_ProcessesAndRequeuesOnError(t *testing.T) {
	q := NewPriorityQueue(PriorityQueueConfig{MaxRetries: 2})

	var succeeded int64
	var mu sync.Mutex
	attemptsByJob := map[string]int{}

	process := func(job *ScanJob) error {
		mu.Lock()
		attemptsByJob[job.ID.String()]++
		n := attemptsByJob[job.ID.String()]
		mu.Unlock()
		if job.Metadata["fail"] == "true" && n < 2 {
			return fmt.Errorf("transient failure")
		}
		return nil
	}

	pool := NewWorkerPool(q, 2, process,
		func(job *ScanJob) { atomic.AddInt64(&succeeded, 1) },
		func(job *ScanJob, err error) {})

	failing := &ScanJob{ID: uuid.New(), Priority: 1, Metadata: map[string]string{"fail": "true"}}
	ok, err := q.Enqueue(failing, false, 0)
	if !ok || err != nil {
		t.Fatalf("enqueue: ok=%v err=%v", ok, err)
	}

	pool.Start()
	defer pool.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&succeeded) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if atomic.LoadInt64(&succeeded) != 1 {
		t.Errorf("expected the job to eventually succeed after one retry, got succeeded=%d", succeeded)
	}
}
