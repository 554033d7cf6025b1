package vehiclefeed

import (
	"sync"
	"time"
)

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock is the time source of the simulator.
type Clock interface {
	Now() time.Time
	NewTicker(interval time.Duration) Ticker
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTicker(interval time.Duration) Ticker {
	return systemTicker{time.NewTicker(interval)}
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t systemTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t systemTicker) Stop() {
	t.ticker.Stop()
}

// ManualClock only moves when Advance is called. Tickers created from it fire once per Advance
// that crosses their interval.
type ManualClock struct {
	mutex   sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.now
}

func (c *ManualClock) NewTicker(interval time.Duration) Ticker {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ticker := &manualTicker{
		clock:    c,
		interval: interval,
		next:     c.now.Add(interval),
		channel:  make(chan time.Time),
		done:     make(chan struct{}),
	}
	c.tickers = append(c.tickers, ticker)

	return ticker
}

// Advance moves the clock forward and delivers a tick to every live ticker that became due,
// blocking until each tick has been received.
func (c *ManualClock) Advance(duration time.Duration) {
	c.mutex.Lock()
	c.now = c.now.Add(duration)
	now := c.now

	var due []*manualTicker
	for _, ticker := range c.tickers {
		if !ticker.next.After(now) {
			due = append(due, ticker)
			for !ticker.next.After(now) {
				ticker.next = ticker.next.Add(ticker.interval)
			}
		}
	}
	c.mutex.Unlock()

	for _, ticker := range due {
		select {
		case ticker.channel <- now:
		case <-ticker.done:
		}
	}
}

// Tickers is the number of tickers created and not yet stopped.
func (c *ManualClock) Tickers() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.tickers)
}

func (c *ManualClock) remove(ticker *manualTicker) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for i, t := range c.tickers {
		if t == ticker {
			c.tickers = append(c.tickers[:i], c.tickers[i+1:]...)
			return
		}
	}
}

type manualTicker struct {
	clock    *ManualClock
	interval time.Duration
	next     time.Time
	channel  chan time.Time

	stopOnce sync.Once
	done     chan struct{}
}

func (t *manualTicker) C() <-chan time.Time {
	return t.channel
}

func (t *manualTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		t.clock.remove(t)
	})
}
