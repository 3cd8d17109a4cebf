// Package bootstrap ties the gaku server process to OS signals. It runs the
// serve loop and, when the process is interrupted, releases resources such as
// the HTTP listener and the database pool in an orderly way.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"time"
)

// shutdownTimeout bounds how long the shutdown hooks may take once an
// interrupt arrives.
const shutdownTimeout = 30 * time.Second

// ShutdownHook releases one resource during shutdown.
type ShutdownHook func(ctx context.Context) error

// App runs the server process and its ordered shutdown.
type App struct {
	mu    sync.Mutex
	hooks []ShutdownHook
}

// New creates an App with no hooks registered.
func New() *App {
	return &App{}
}

// AddShutdownHook registers a hook. Hooks run in reverse registration order,
// so a resource registered first is released last.
func (a *App) AddShutdownHook(hook ShutdownHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, hook)
}

// Run executes run until it returns or the process receives an interrupt. On
// interrupt the registered hooks run with a deadline of shutdownTimeout and
// their errors are returned joined. An error from run is returned as is.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	select {
	case <-ctx.Done():
		return a.shutdown()
	case err := <-errCh:
		if err != nil {
			return err
		}
		// run may have returned because the interrupt cancelled its
		// context, in which case the hooks still have to run
		select {
		case <-ctx.Done():
			return a.shutdown()
		default:
		}
		return nil
	}
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
