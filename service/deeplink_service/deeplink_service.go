package deeplink_service

import (
	"context"
	"errors"
	"sync"
	"time"

	"mini-app-gateway/metrics"
	model "mini-app-gateway/models"
	"mini-app-gateway/registry"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DefaultVisibilityTimeout window in which losing visibility means the host app took over
const DefaultVisibilityTimeout = 600 * time.Millisecond

// ErrSchemeBlocked the environment refused the custom scheme; the universal link is tried instead
var ErrSchemeBlocked = errors.New("custom scheme blocked")

// Navigator changes the active location of the browsing context
type Navigator interface {
	Navigate(ctx context.Context, uri string) error
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, uri string) error

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(ctx context.Context, uri string) error {
	return f(ctx, uri)
}

// Plan candidate targets for one attempt, served to the share page script
type Plan struct {
	AttemptID     string                  `json:"attempt_id"`
	AppID         string                  `json:"app_id"`
	Platform      Platform                `json:"platform"`
	SchemeURI     string                  `json:"scheme_uri,omitempty"`
	UniversalLink string                  `json:"universal_link,omitempty"`
	FallbackURI   string                  `json:"fallback_uri,omitempty"`
	FallbackKind  FallbackKind            `json:"fallback_kind,omitempty"`
	TimeoutMs     int64                   `json:"timeout_ms"`
	Outcome       model.NavigationOutcome `json:"outcome,omitempty"` // set only when no race can run
}

// DeepLinkService hands navigation off to the host app and falls back when it does not take over
type DeepLinkService struct {
	gw    registry.Gateway
	opts  Options
	clock clock.Clock
}

// NewDeepLinkService 创建深链服务实例
func NewDeepLinkService(gw registry.Gateway, opts Options, clk clock.Clock) *DeepLinkService {
	if opts.VisibilityTimeout <= 0 {
		opts.VisibilityTimeout = DefaultVisibilityTimeout
	}
	if clk == nil {
		clk = clock.New()
	}
	return &DeepLinkService{gw: gw, opts: opts, clock: clk}
}

// Options resolver settings
func (s *DeepLinkService) Options() Options {
	return s.opts
}

// NewRequest stamps a new attempt
func (s *DeepLinkService) NewRequest(appID, path string, params model.Params) *model.DeepLinkRequest {
	return &model.DeepLinkRequest{
		AttemptID:       uuid.NewString(),
		AppID:           appID,
		Path:            path,
		Params:          params,
		OriginTimestamp: s.clock.Now(),
	}
}

// Plan resolves the app and lists every candidate target for platform.
// Unsupported platforms get a plan with outcome unsupported-platform and no candidates.
func (s *DeepLinkService) Plan(ctx context.Context, req *model.DeepLinkRequest, platform Platform) (*Plan, error) {
	if _, err := registry.ResolveApproved(ctx, registry.FromContext(ctx, s.gw), req.AppID); err != nil {
		return nil, err
	}

	metrics.RecordNavigationPlan(string(platform))

	plan := &Plan{
		AttemptID: req.AttemptID,
		AppID:     req.AppID,
		Platform:  platform,
		TimeoutMs: s.opts.VisibilityTimeout.Milliseconds(),
	}
	if !platform.Supported() {
		plan.Outcome = model.OutcomeUnsupportedPlatform
		return plan, nil
	}

	plan.SchemeURI = s.opts.SchemeURI(req)
	plan.UniversalLink = s.opts.UniversalLink(req)
	plan.FallbackURI, plan.FallbackKind = s.opts.FallbackURI(platform, req.AppID)
	return plan, nil
}

// Begin resolves the app, navigates to the custom scheme (or the universal link
// when the scheme is blocked) and arms the fallback timer. The returned race is
// settled by OnVisibilityChange, the timer, or Abandon.
func (s *DeepLinkService) Begin(ctx context.Context, req *model.DeepLinkRequest, platform Platform, nav Navigator) (*Race, error) {
	if _, err := registry.ResolveApproved(ctx, registry.FromContext(ctx, s.gw), req.AppID); err != nil {
		return nil, err
	}
	if !platform.Supported() {
		return nil, ErrUnsupportedPlatform
	}

	logger := log.WithFields(log.Fields{
		"attempt_id": req.AttemptID,
		"app_id":     req.AppID,
		"platform":   platform,
	})

	kind := s.opts.FallbackKindFor(platform)
	race := newRace(kind, func() string {
		uri, _ := s.opts.FallbackURI(platform, req.AppID)
		if err := nav.Navigate(ctx, uri); err != nil {
			logger.Warnf("Fallback navigation failed: %v", err)
		}
		return uri
	})

	if err := nav.Navigate(ctx, s.opts.SchemeURI(req)); err != nil {
		if errors.Is(err, ErrSchemeBlocked) {
			if err := nav.Navigate(ctx, s.opts.UniversalLink(req)); err != nil {
				logger.Warnf("Universal link navigation failed: %v", err)
			}
		} else {
			logger.Warnf("Scheme navigation failed: %v", err)
		}
	}

	race.arm(s.clock, s.opts.VisibilityTimeout)
	return race, nil
}

// Resolve runs one attempt to completion. Values on visibility report whether
// the page is hidden. Cancelling ctx abandons the race.
func (s *DeepLinkService) Resolve(ctx context.Context, req *model.DeepLinkRequest, platform Platform, nav Navigator, visibility <-chan bool) (model.NavigationOutcome, error) {
	race, err := s.Begin(ctx, req, platform, nav)
	if errors.Is(err, ErrUnsupportedPlatform) {
		return model.OutcomeUnsupportedPlatform, err
	}
	if err != nil {
		return "", err
	}

	cancelled := ctx.Done()
	for {
		select {
		case hidden, ok := <-visibility:
			if !ok {
				visibility = nil
				continue
			}
			race.OnVisibilityChange(hidden)
		case <-cancelled:
			cancelled = nil
			race.Abandon()
		case <-race.Done():
			return race.Outcome()
		}
	}
}

// Session owns at most one live race; starting a new one abandons the previous.
type Session struct {
	svc     *DeepLinkService
	mu      sync.Mutex
	current *Race
}

// NewSession binds a session to svc
func (s *DeepLinkService) NewSession() *Session {
	return &Session{svc: s}
}

// Start abandons any pending race and begins a new one
func (s *Session) Start(ctx context.Context, req *model.DeepLinkRequest, platform Platform, nav Navigator) (*Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Abandon()
		s.current = nil
	}

	race, err := s.svc.Begin(ctx, req, platform, nav)
	if err != nil {
		return nil, err
	}
	s.current = race
	return race, nil
}

// Close abandons the live race, if any
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Abandon()
		s.current = nil
	}
}
