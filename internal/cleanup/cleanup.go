// Package cleanup collects teardown hooks (closing API clients, log files)
// that must run on every exit path of a command.
package cleanup

import (
	"errors"
	"fmt"
	"sync"
)

type hook struct {
	name string
	fn   func() error
}

var (
	mu    sync.Mutex
	hooks []hook
)

// Register adds a named hook. Hooks run in reverse registration order, so a
// log file opened first is closed after the clients that log into it.
func Register(name string, fn func() error) {
	if fn == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	hooks = append(hooks, hook{name: name, fn: fn})
}

// RunAll runs and forgets every registered hook. Failures are joined, each
// prefixed with its hook name.
func RunAll() error {
	mu.Lock()
	pending := hooks
	hooks = nil
	mu.Unlock()

	var errs []error
	for i := len(pending) - 1; i >= 0; i-- {
		if err := pending[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", pending[i].name, err))
		}
	}
	return errors.Join(errs...)
}
