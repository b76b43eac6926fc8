package federation

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// runPool drains the task list through a bounded pool of workers and blocks
// until every task has completed. Tasks must do their own failure recording;
// a task that fails still counts as completed, so the barrier is always
// reached.
func runPool(workers int, tasks []func()) error {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		wrapped := func() {
			defer wg.Done()
			task()
		}
		if err := pool.Submit(wrapped); err != nil {
			// The pool only refuses after release; keep the barrier honest
			// by running the task on the caller.
			wrapped()
		}
	}
	wg.Wait()

	return nil
}
