package formula

import (
	"fmt"
	"time"
)

// EvalTimeout is the default hard limit for a single formula.
const EvalTimeout = 2 * time.Second

type evalResult struct {
	value float64
	err   error
}

// waitWithTimeout waits for the interpreter goroutine. On timeout the
// goroutine may still be running; its result lands in the buffered channel
// and is dropped.
func waitWithTimeout(ch <-chan evalResult, timeout time.Duration) (float64, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.value, res.err
	case <-timer.C:
		return 0, fmt.Errorf("formula: evaluation timed out after %s", timeout)
	}
}
