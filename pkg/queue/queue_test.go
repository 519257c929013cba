package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ibrahimdesign/atelier/pkg/queue"
)

var (
	echoCalls    atomic.Int32
	failAttempts atomic.Int32
)

type echoJob struct {
	Val string `json:"val"`
}

func (j *echoJob) Handle() error {
	echoCalls.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	failAttempts.Add(1)
	return errors.New("always fails")
}

func init() {
	// Start workers so jobs actually get processed in tests.
	queue.StartWorkers(context.Background(), 2)

	queue.Register("echo", func() queue.Job { return &echoJob{} })
	queue.Register("fail", func() queue.Job { return &failJob{} })
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestDispatchAndProcess(t *testing.T) {
	before := echoCalls.Load()

	if err := queue.Dispatch("echo", &echoJob{Val: "hello"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return echoCalls.Load() > before })
}

func TestFailedJobRetry(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch("fail", &failJob{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool { return len(queue.FailedJobs()) > 0 })

	if failAttempts.Load() == 0 {
		t.Error("expected the failing job to run at least once")
	}
}

func TestDispatchConcurrent(t *testing.T) {
	before := echoCalls.Load()

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch("echo", &echoJob{Val: "c"}) //nolint:errcheck
		}()
	}
	wg.Wait()

	waitFor(t, 5*time.Second, func() bool { return echoCalls.Load() >= before+20 })
}
