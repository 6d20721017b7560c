package timer

import (
	"context"
	"sync"
	"time"
)

// Countdown вызывает tick раз в interval, пока не будет вызван Stop или не отменен ctx
type Countdown struct {
	interval time.Duration
	tick     func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCountdown создает новый экземпляр Countdown
func NewCountdown(interval time.Duration, tick func(ctx context.Context)) *Countdown {
	return &Countdown{interval: interval, tick: tick}
}

// Start запускает отсчет. Повторный запуск отменяет предыдущий.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				c.tick(ctx)
			}
		}
	}()
}

// Stop отменяет отсчет и не ждет горутину, поэтому его можно вызывать из tick
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
