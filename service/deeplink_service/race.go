package deeplink_service

import (
	"errors"
	"sync"
	"time"

	model "mini-app-gateway/models"

	"github.com/facebookgo/clock"
)

var (
	// ErrUnsupportedPlatform no race is started on this platform
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrNavigationRaceAbandoned the caller lost interest before settlement
	ErrNavigationRaceAbandoned = errors.New("navigation race abandoned")
)

type raceState int

const (
	statePending raceState = iota
	stateSettled
)

// Race single-shot race between the visibility signal and the fallback timer.
// Every trigger attempts pending -> settled; triggers after settlement are no-ops.
type Race struct {
	mu        sync.Mutex
	state     raceState
	outcome   model.NavigationOutcome
	abandoned bool
	timer     *clock.Timer
	done      chan struct{}

	fallbackKind FallbackKind
	fallback     func() string // builds and navigates to the fallback, returns its URI
	fallbackURI  string
}

func newRace(kind FallbackKind, fallback func() string) *Race {
	return &Race{
		state:        statePending,
		done:         make(chan struct{}),
		fallbackKind: kind,
		fallback:     fallback,
	}
}

// arm starts the fallback timer unless the race already settled
func (r *Race) arm(clk clock.Clock, timeout time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != statePending {
		return
	}
	r.timer = clk.AfterFunc(timeout, r.OnTimeout)
}

// settle moves pending -> settled and stops the timer. Caller holds mu.
func (r *Race) settle(outcome model.NavigationOutcome, abandoned bool) bool {
	if r.state != statePending {
		return false
	}
	r.state = stateSettled
	r.outcome = outcome
	r.abandoned = abandoned
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	return true
}

// OnVisibilityChange reports the page visibility. Losing visibility while
// pending means the host app took over navigation.
func (r *Race) OnVisibilityChange(hidden bool) {
	if !hidden {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settle(model.OutcomeOpenedInApp, false) {
		close(r.done)
	}
}

// OnTimeout the page stayed in the foreground, the fallback is navigated to.
func (r *Race) OnTimeout() {
	r.mu.Lock()
	won := r.settle(r.fallbackKind.Outcome(), false)
	r.mu.Unlock()

	if !won {
		return
	}

	// navigation happens outside the lock; done closes once it was issued
	var uri string
	if r.fallback != nil {
		uri = r.fallback()
	}

	r.mu.Lock()
	r.fallbackURI = uri
	r.mu.Unlock()
	close(r.done)
}

// Abandon releases the timer; the race reports ErrNavigationRaceAbandoned.
func (r *Race) Abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settle("", true) {
		close(r.done)
	}
}

// Done is closed once the race settled and any fallback navigation was issued
func (r *Race) Done() <-chan struct{} {
	return r.done
}

// Settled reports whether the race has an outcome
func (r *Race) Settled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateSettled
}

// Outcome first settled outcome. Pending races report ("", nil).
func (r *Race) Outcome() (model.NavigationOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.abandoned {
		return "", ErrNavigationRaceAbandoned
	}
	return r.outcome, nil
}

// FallbackURI the fallback target, empty unless the timeout path built one
func (r *Race) FallbackURI() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallbackURI
}
