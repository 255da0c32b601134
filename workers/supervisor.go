// Package workers contains the supervised background goroutines of the mail
// server and the supervisor that keeps them alive.
package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mailroom/contract"
	"mailroom/errors"
)

// Supervisor runs each worker in its own goroutine, recovers panics,
// restarts crashed workers after a fixed pause, and stops everything when
// the parent context is canceled. A worker returning nil is considered
// finished and is never restarted.
type Supervisor struct {
	log             *slog.Logger
	restartInterval time.Duration
	wg              sync.WaitGroup
	workers         []contract.Worker
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{log: log, restartInterval: restartInterval}
}

// Add registers workers to run; returns the supervisor for chaining.
func (s *Supervisor) Add(workers ...contract.Worker) *Supervisor {
	s.workers = append(s.workers, workers...)
	return s
}

// Run starts every registered worker and blocks until all of them have
// stopped. Cancellation of ctx is the only external stop signal.
func (s *Supervisor) Run(ctx context.Context) {
	for _, worker := range s.workers {
		s.start(ctx, worker)
	}
	s.wg.Wait()
}

// start supervises one worker. A crash in one worker must never take down
// the supervisor or its siblings.
func (s *Supervisor) start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	name := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info("Worker stopped", "name", name)
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						s.log.Error("Worker panicked", "name", name, "panic", r)
						err = errors.ErrWorkerPanic
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Info("Worker finished", "name", name)
				return
			}
			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", name, "error", err)
			select {
			case <-ctx.Done():
				s.log.Info("Worker stopped during restart pause", "name", name)
				return
			case <-time.After(s.restartInterval):
			}
		}
	}()
}
