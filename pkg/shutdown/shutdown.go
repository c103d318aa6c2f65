// Package shutdown runs registered cleanup tasks once the process is asked
// to stop.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

type Task func(ctx context.Context) error

type namedTask struct {
	name string
	run  Task
}

type Manager struct {
	cancel  context.CancelFunc
	timeout time.Duration

	mu    sync.Mutex
	tasks []namedTask

	once sync.Once
	done chan struct{}
	err  error
}

// New returns a context that is cancelled when shutdown starts, and the
// manager that owns it. timeout bounds all tasks together.
func New(parent context.Context, timeout time.Duration) (context.Context, *Manager) {
	ctx, cancel := context.WithCancel(parent)
	return ctx, &Manager{cancel: cancel, timeout: timeout, done: make(chan struct{})}
}

func (m *Manager) Register(name string, run Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, namedTask{name: name, run: run})
}

// Listen starts the shutdown on SIGINT or SIGTERM.
func (m *Manager) Listen() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		signal.Stop(sigs)
		log.Printf("[SHUTDOWN] Received signal: %v", sig)
		m.Shutdown()
	}()
}

// Shutdown cancels the root context, then runs the tasks newest first so
// servers stop before the stores they use. Only the first call does work.
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.cancel()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		m.mu.Lock()
		tasks := append([]namedTask(nil), m.tasks...)
		m.mu.Unlock()

		var errs []error
		for i := len(tasks) - 1; i >= 0; i-- {
			t := tasks[i]
			log.Printf("[SHUTDOWN] Stopping %s...", t.name)
			if err := t.run(ctx); err != nil {
				log.Printf("[SHUTDOWN] %s: %v", t.name, err)
				errs = append(errs, fmt.Errorf("%s: %w", t.name, err))
			}
		}
		m.err = errors.Join(errs...)
		log.Println("[SHUTDOWN] Graceful shutdown complete")
		close(m.done)
	})
}

// Wait blocks until Shutdown has finished and returns the task errors.
func (m *Manager) Wait() error {
	<-m.done
	return m.err
}
