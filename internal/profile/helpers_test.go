package profile

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/portfolio/internal/types"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs every timer that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Pending returns the delays of timers that are still armed.
func (c *fakeClock) Pending() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []time.Duration
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t.d)
		}
	}
	return out
}

type fetchResult struct {
	doc *types.ProfileDocument
	err error
}

type pendingFetch struct {
	lang  types.Language
	reply chan fetchResult
}

// gatedSource hands every call to the test, which answers it explicitly.
// It deliberately ignores ctx so late replies reach the controller.
type gatedSource struct {
	calls chan *pendingFetch
}

func newGatedSource() *gatedSource {
	return &gatedSource{calls: make(chan *pendingFetch, 16)}
}

func (s *gatedSource) Fetch(_ context.Context, lang types.Language) (*types.ProfileDocument, error) {
	p := &pendingFetch{lang: lang, reply: make(chan fetchResult, 1)}
	s.calls <- p
	res := <-p.reply
	return res.doc, res.err
}

func (s *gatedSource) next(timeout time.Duration) *pendingFetch {
	select {
	case p := <-s.calls:
		return p
	case <-time.After(timeout):
		return nil
	}
}

func sampleDocument(name string) *types.ProfileDocument {
	return &types.ProfileDocument{
		Name:    name,
		Title:   "Engineer",
		Contact: types.Contact{Email: "a@example.com", Location: "Madrid"},
		Profile: "Profile statement",
		Skills:  map[string]string{"Go": "stdlib, concurrency"},
		Experience: []types.Experience{
			{Role: "Engineer", Company: "Acme", Date: "2020", Description: []string{"Built things"}},
		},
		Education:      []types.Education{{Title: "BSc", Institution: "UPM"}},
		Languages:      []types.LanguageLevel{{Language: "English", Level: "C1"}},
		Certifications: []string{"CKA"},
	}
}
