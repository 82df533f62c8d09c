// Package poller runs a function on a cron schedule until it fails or is stopped.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

var ErrAlreadyStarted = errors.New("poller already started")

// Func is called on every tick. A non nil error stops the poller.
type Func func(ctx context.Context) error

// Poller calls a Func each time its schedule comes due. The next tick is only computed
// once the previous call has returned successfully.
type Poller struct {
	name     string
	schedule cron.Schedule
	fn       Func
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// New creates a poller. It does nothing until Start is called.
func New(name string, schedule cron.Schedule, fn Func, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		name:     name,
		schedule: schedule,
		fn:       fn,
		logger:   logger.With(slog.String("poller", name)),
	}
}

// Parse builds a schedule from a standard cron spec such as "@every 2s".
func Parse(spec string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse schedule %q", spec)
	}

	return schedule, nil
}

// Start launches the polling loop. The loop stops when ctx is done, when Stop is called or
// after the first failed call. A loop that has exited can be started again.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done != nil {
		select {
		case <-p.done:
		default:
			return ErrAlreadyStarted
		}
	}

	if p.cancel != nil {
		p.cancel()
	}

	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.err = nil

	go p.loop(pollCtx, p.done)
	p.logger.Debug("poller started")

	return nil
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		timer := time.NewTimer(time.Until(p.schedule.Next(time.Now())))

		select {
		case <-ctx.Done():
			timer.Stop()

			return
		case <-timer.C:
		}

		err := p.fn(ctx)
		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			return
		}

		p.logger.Error("poll failed, stopping", slog.String("error", err.Error()))

		p.mu.Lock()
		p.err = err
		p.mu.Unlock()

		return
	}
}

// Done is closed once the loop has exited. It is nil before Start.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.done
}

// Err returns the error that stopped the loop, if any.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

// Stop cancels the loop and waits for a call in progress to return. The poller can be
// started again afterwards. Stop must not be called from the polled Func.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	p.logger.Debug("poller stopped")
}
