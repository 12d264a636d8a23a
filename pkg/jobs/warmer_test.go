package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmerProcessesTask(t *testing.T) {
	done := make(chan string, 1)
	w := NewWarmer(func(ctx context.Context, task Task) error {
		done <- task.SubjectID
		return nil
	}, Config{Workers: 1})

	w.Start(context.Background())
	defer w.Stop()

	require.NoError(t, w.Enqueue("subj-1"))

	select {
	case got := <-done:
		assert.Equal(t, "subj-1", got)
	case <-time.After(2 * time.Second):
		t.Fatal("task never processed")
	}
}

func TestWarmerCoalescesPendingSubject(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	counts := map[string]int{}

	w := NewWarmer(func(ctx context.Context, task Task) error {
		<-release
		mu.Lock()
		counts[task.SubjectID]++
		mu.Unlock()
		return nil
	}, Config{Workers: 1, BufferSize: 8})

	w.Start(context.Background())
	defer w.Stop()

	// The worker blocks on the first task, so the second subject and the
	// duplicate both sit in the queue. The duplicate must be dropped.
	require.NoError(t, w.Enqueue("blocker"))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Enqueue("subj-1"))
	require.NoError(t, w.Enqueue("subj-1"))
	close(release)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return counts["subj-1"] == 1 && counts["blocker"] == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWarmerEnqueueBeforeStart(t *testing.T) {
	w := NewWarmer(func(ctx context.Context, task Task) error { return nil }, Config{})
	assert.Error(t, w.Enqueue("subj-1"))
}
