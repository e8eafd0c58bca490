// Package profile owns the lifecycle of the localized profile document: fetching it,
// validating it, falling back when it cannot be loaded, and retrying on a timer.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/types"
)

// DefaultFetchTimeout bounds a single profile request.
const DefaultFetchTimeout = 15 * time.Second

// ErrEmptyDocument is reported when a source returns neither a document nor an error.
var ErrEmptyDocument = errors.New("profile source returned no document")

// Options configures a Controller.
type Options struct {
	Retry        RetryPolicy
	Clock        Clock
	FetchTimeout time.Duration
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Retry.Interval <= 0 {
		o.Retry.Interval = DefaultRetryInterval
	}
	if o.Clock == nil {
		o.Clock = RealClock()
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Snapshot is a point-in-time copy of a controller's state. The document is a deep
// copy and may be modified by the caller.
type Snapshot struct {
	State      State
	Language   types.Language
	Document   *types.ProfileDocument
	Err        error
	Generation uint64
	// Failures counts consecutive failed attempts for the current language.
	Failures int
	// NextRetry is when the pending retry fires; zero when none is scheduled.
	NextRetry time.Time
}

// RetryScheduled reports whether a retry timer is armed.
func (s Snapshot) RetryScheduled() bool {
	return !s.NextRetry.IsZero()
}

// Controller drives the Idle → Loading → Ready | Errored state machine for one
// viewer. Every fetch is tagged with the generation that started it; a completion
// whose generation is no longer current is dropped.
type Controller struct {
	source Source
	opts   Options
	log    *slog.Logger

	mu        sync.Mutex
	state     State
	lang      types.Language
	doc       *types.ProfileDocument
	err       error
	gen       uint64
	failures  int
	timer     Timer
	nextRetry time.Time
	cancel    context.CancelFunc
	changed   chan struct{}
	closed    bool
}

// NewController creates an idle controller reading from source.
func NewController(source Source, opts Options) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		source:  source,
		opts:    opts,
		log:     opts.Logger,
		state:   StateIdle,
		changed: make(chan struct{}),
	}
}

// Load starts a fresh fetch for lang. Any pending retry and any in-flight request
// are abandoned. The previously installed document stays visible until the new
// request completes.
func (c *Controller) Load(lang types.Language) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.lang = lang
	c.failures = 0
	c.startLocked()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Await blocks until the controller is no longer loading, or ctx ends. It always
// returns the latest snapshot; the error is ctx.Err() when the wait was cut short.
func (c *Controller) Await(ctx context.Context) (Snapshot, error) {
	for {
		c.mu.Lock()
		if c.state != StateLoading || c.closed {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, nil
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		case <-changed:
		}
	}
}

// Close stops the retry timer and abandons any in-flight request. Late completions
// are ignored. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.stopTimerLocked()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.notifyLocked()
}

func (c *Controller) startLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen, lang := c.gen, c.lang

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.FetchTimeout)
	c.cancel = cancel
	c.err = nil
	c.setStateLocked(StateLoading)

	go c.run(ctx, cancel, gen, lang)
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, gen uint64, lang types.Language) {
	defer cancel()

	doc, err := c.source.Fetch(ctx, lang)
	if err == nil && doc == nil {
		err = ErrEmptyDocument
	}
	c.complete(gen, lang, doc, err)
}

func (c *Controller) complete(gen uint64, lang types.Language, doc *types.ProfileDocument, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		metrics.ProfileStaleResponses.Inc()
		c.log.Debug("discarding stale profile response", "lang", lang, "generation", gen, "current", c.gen)
		return
	}
	c.cancel = nil

	if err != nil {
		c.failures++
		c.doc = types.FallbackProfile()
		c.err = err
		delay := c.opts.Retry.Delay(c.failures)
		c.nextRetry = c.opts.Clock.Now().Add(delay)
		c.timer = c.opts.Clock.AfterFunc(delay, func() { c.retry(gen) })
		c.log.Warn("profile fetch failed",
			"lang", lang,
			"error", err,
			"failures", c.failures,
			"retry_in", delay,
		)
		c.setStateLocked(StateErrored)
		return
	}

	c.stopTimerLocked()
	c.failures = 0
	c.doc = doc
	c.err = nil
	c.setStateLocked(StateReady)
}

func (c *Controller) retry(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen || c.state != StateErrored {
		return
	}
	c.timer = nil
	c.nextRetry = time.Time{}
	metrics.ProfileRetries.Inc()
	c.log.Info("retrying profile fetch", "lang", c.lang, "attempt", c.failures+1)
	c.startLocked()
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.nextRetry = time.Time{}
}

func (c *Controller) setStateLocked(s State) {
	c.state = s
	metrics.ProfileTransitions.WithLabelValues(s.String()).Inc()
	c.notifyLocked()
}

// notifyLocked wakes every Await caller.
func (c *Controller) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:      c.state,
		Language:   c.lang,
		Document:   c.doc.Clone(),
		Err:        c.err,
		Generation: c.gen,
		Failures:   c.failures,
		NextRetry:  c.nextRetry,
	}
}
