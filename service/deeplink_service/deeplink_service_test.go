package deeplink_service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	model "mini-app-gateway/models"
	"mini-app-gateway/registry"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway map[string]*model.AppMetadata

func (g stubGateway) GetApp(_ context.Context, appID string) (*model.AppMetadata, error) {
	return g[appID], nil
}

type failingGateway struct{}

func (failingGateway) GetApp(context.Context, string) (*model.AppMetadata, error) {
	return nil, errors.New("connection refused")
}

// countingClock records every timer armed on the mock clock
type countingClock struct {
	*clock.Mock
	mu     sync.Mutex
	timers int
	armed  chan struct{}
}

func newCountingClock() *countingClock {
	return &countingClock{Mock: clock.NewMock(), armed: make(chan struct{}, 16)}
}

func (c *countingClock) AfterFunc(d time.Duration, f func()) *clock.Timer {
	c.mu.Lock()
	c.timers++
	c.mu.Unlock()
	t := c.Mock.AfterFunc(d, f)
	c.armed <- struct{}{}
	return t
}

func (c *countingClock) Timers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers
}

// recordingNavigator records every navigation in order
type recordingNavigator struct {
	mu      sync.Mutex
	visited []string
	block   bool
}

func (n *recordingNavigator) Navigate(_ context.Context, uri string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visited = append(n.visited, uri)
	if n.block && len(n.visited) == 1 {
		return ErrSchemeBlocked
	}
	return nil
}

func (n *recordingNavigator) Visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.visited...)
}

var testApps = stubGateway{
	"social-app": {AppID: "social-app", Name: "Social Hub", ApprovalStatus: model.ApprovalApproved},
	"draft-app":  {AppID: "draft-app", Name: "Draft", ApprovalStatus: model.ApprovalPending},
}

func testOptions() Options {
	return Options{
		Scheme:            "metawallet",
		HostDomain:        "wallet.example.com",
		VisibilityTimeout: 600 * time.Millisecond,
		IOSStoreURL:       "https://apps.apple.com/app/id123456",
		AndroidStoreURL:   "https://play.google.com/store/apps/details?id=com.example.wallet",
	}
}

func newTestService(clk clock.Clock) *DeepLinkService {
	return NewDeepLinkService(testApps, testOptions(), clk)
}

func TestCandidateURIs(t *testing.T) {
	opts := testOptions()
	req := &model.DeepLinkRequest{
		AppID: "social-app",
		Path:  "/feed",
		Params: model.Params{
			{Key: "ref", Value: "twitter"},
			{Key: "tab", Value: "2"},
		},
	}

	assert.Equal(t, "metawallet://app/social-app?path=%2Ffeed&ref=twitter&tab=2", opts.SchemeURI(req))
	assert.Equal(t, "https://wallet.example.com/open/social-app?path=%2Ffeed&ref=twitter&tab=2", opts.UniversalLink(req))

	req.Path = ""
	req.Params = model.Params{{Key: "tab", Value: "2"}, {Key: "ref", Value: "a b&c"}}
	assert.Equal(t, "metawallet://app/social-app?tab=2&ref=a+b%26c", opts.SchemeURI(req))

	req.Params = nil
	assert.Equal(t, "metawallet://app/social-app", opts.SchemeURI(req))
}

func TestFallbackPolicy(t *testing.T) {
	opts := testOptions()

	uri, kind := opts.FallbackURI(PlatformIOS, "social-app")
	assert.Equal(t, opts.IOSStoreURL, uri)
	assert.Equal(t, FallbackStore, kind)

	uri, kind = opts.FallbackURI(PlatformAndroid, "social-app")
	assert.Equal(t, opts.AndroidStoreURL, uri)
	assert.Equal(t, FallbackStore, kind)

	uri, kind = opts.FallbackURI(PlatformOtherMobile, "social-app")
	assert.Equal(t, "https://wallet.example.com/app/social-app", uri)
	assert.Equal(t, FallbackWeb, kind)

	opts.IOSStoreURL = ""
	assert.Equal(t, FallbackWeb, opts.FallbackKindFor(PlatformIOS))
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		ua   string
		want Platform
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148", PlatformIOS},
		{"Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X)", PlatformIOS},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36", PlatformAndroid},
		{"Mozilla/5.0 (Mobile; rv:48.0) Gecko/48.0 Firefox/48.0 KAIOS/2.5", PlatformOtherMobile},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", PlatformDesktop},
		{"", PlatformDesktop},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectPlatform(tt.ua), tt.ua)
	}

	assert.Equal(t, PlatformAndroid, ParsePlatform("android", ""))
	assert.Equal(t, PlatformDesktop, ParsePlatform("bogus", ""))
}

func TestVisibilityLossOpensInApp(t *testing.T) {
	clk := newCountingClock()
	svc := newTestService(clk)
	nav := &recordingNavigator{}
	req := svc.NewRequest("social-app", "", nil)

	race, err := svc.Begin(context.Background(), req, PlatformIOS, nav)
	require.NoError(t, err)
	assert.Equal(t, []string{"metawallet://app/social-app"}, nav.Visited())

	clk.Add(150 * time.Millisecond)
	assert.False(t, race.Settled())
	race.OnVisibilityChange(true)

	// the timer was released, nothing fires later
	clk.Add(time.Second)

	outcome, err := race.Outcome()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeOpenedInApp, outcome)
	assert.Empty(t, race.FallbackURI(), "no fallback URI may be constructed")
	assert.Equal(t, []string{"metawallet://app/social-app"}, nav.Visited())
	assert.Equal(t, 1, clk.Timers())
}

func TestTimeoutFallsBackToStore(t *testing.T) {
	clk := newCountingClock()
	svc := newTestService(clk)
	nav := &recordingNavigator{}

	race, err := svc.Begin(context.Background(), svc.NewRequest("social-app", "", nil), PlatformAndroid, nav)
	require.NoError(t, err)

	clk.Add(599 * time.Millisecond)
	assert.False(t, race.Settled())
	clk.Add(time.Millisecond)
	<-race.Done()

	outcome, err := race.Outcome()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFellBackToStore, outcome)
	assert.Equal(t, testOptions().AndroidStoreURL, race.FallbackURI())
	assert.Equal(t, []string{"metawallet://app/social-app", testOptions().AndroidStoreURL}, nav.Visited())
}

func TestSettlementIsIdempotent(t *testing.T) {
	clk := newCountingClock()
	svc := newTestService(clk)
	nav := &recordingNavigator{}

	race, err := svc.Begin(context.Background(), svc.NewRequest("social-app", "", nil), PlatformOtherMobile, nav)
	require.NoError(t, err)

	clk.Add(600 * time.Millisecond)
	<-race.Done()

	// delayed duplicate signals
	race.OnVisibilityChange(true)
	race.OnTimeout()
	race.Abandon()

	outcome, err := race.Outcome()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFellBackToWeb, outcome)
	assert.Len(t, nav.Visited(), 2, "exactly one fallback navigation")
}

func TestDesktopIsUnsupported(t *testing.T) {
	clk := newCountingClock()
	svc := newTestService(clk)
	nav := &recordingNavigator{}

	outcome, err := svc.Resolve(context.Background(), svc.NewRequest("social-app", "", nil), PlatformDesktop, nav, nil)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.Equal(t, model.OutcomeUnsupportedPlatform, outcome)
	assert.Empty(t, nav.Visited())
	assert.Equal(t, 0, clk.Timers())
}

func TestResolveFailsFastOnInvalidApp(t *testing.T) {
	clk := newCountingClock()
	svc := newTestService(clk)
	nav := &recordingNavigator{}

	_, err := svc.Resolve(context.Background(), svc.NewRequest("unknown-xyz", "", nil), PlatformIOS, nav, nil)
	assert.ErrorIs(t, err, registry.ErrAppNotFound)

	_, err = svc.Resolve(context.Background(), svc.NewRequest("draft-app", "", nil), PlatformIOS, nav, nil)
	assert.ErrorIs(t, err, registry.ErrAppNotApproved)

	down := NewDeepLinkService(failingGateway{}, testOptions(), clk)
	_, err = down.Resolve(context.Background(), down.NewRequest("social-app", "", nil), PlatformIOS, nav, nil)
	assert.ErrorIs(t, err, registry.ErrRegistryUnavailable)

	assert.Empty(t, nav.Visited())
	assert.Equal(t, 0, clk.Timers())
}

func TestResolveWithVisibilitySignal(t *testing.T) {
	clk := newCountingClock()
	svc := newTestService(clk)
	nav := &recordingNavigator{}
	visibility := make(chan bool)

	type result struct {
		outcome model.NavigationOutcome
		err     error
	}
	results := make(chan result, 1)
	go func() {
		outcome, err := svc.Resolve(context.Background(), svc.NewRequest("social-app", "", nil), PlatformIOS, nav, visibility)
		results <- result{outcome, err}
	}()

	<-clk.armed
	clk.Add(150 * time.Millisecond)
	visibility <- false
	visibility <- true

	res := <-results
	require.NoError(t, res.err)
	assert.Equal(t, model.OutcomeOpenedInApp, res.outcome)
}

func TestResolveAbandoned(t *testing.T) {
	clk := newCountingClock()
	svc := newTestService(clk)
	nav := &recordingNavigator{}
	ctx, cancel := context.WithCancel(context.Background())

	results := make(chan error, 1)
	go func() {
		_, err := svc.Resolve(ctx, svc.NewRequest("social-app", "", nil), PlatformIOS, nav, nil)
		results <- err
	}()

	<-clk.armed
	cancel()
	assert.ErrorIs(t, <-results, ErrNavigationRaceAbandoned)

	// the released timer never navigates to the fallback
	clk.Add(time.Second)
	assert.Len(t, nav.Visited(), 1)
}

func TestSchemeBlockedUsesUniversalLink(t *testing.T) {
	clk := newCountingClock()
	svc := newTestService(clk)
	nav := &recordingNavigator{block: true}
	req := svc.NewRequest("social-app", "/feed", model.Params{{Key: "ref", Value: "twitter"}})

	_, err := svc.Begin(context.Background(), req, PlatformIOS, nav)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"metawallet://app/social-app?path=%2Ffeed&ref=twitter",
		"https://wallet.example.com/open/social-app?path=%2Ffeed&ref=twitter",
	}, nav.Visited())
}

func TestSessionAbandonsPreviousRace(t *testing.T) {
	clk := newCountingClock()
	svc := newTestService(clk)
	nav := &recordingNavigator{}
	session := svc.NewSession()

	first, err := session.Start(context.Background(), svc.NewRequest("social-app", "", nil), PlatformIOS, nav)
	require.NoError(t, err)
	second, err := session.Start(context.Background(), svc.NewRequest("social-app", "/x", nil), PlatformIOS, nav)
	require.NoError(t, err)

	_, err = first.Outcome()
	assert.ErrorIs(t, err, ErrNavigationRaceAbandoned)

	clk.Add(600 * time.Millisecond)
	<-second.Done()
	outcome, err := second.Outcome()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFellBackToStore, outcome)
	assert.Len(t, nav.Visited(), 3, "two scheme attempts and one fallback")

	session.Close()
}

func TestPlan(t *testing.T) {
	svc := newTestService(newCountingClock())
	req := svc.NewRequest("social-app", "", model.Params{{Key: "ref", Value: "twitter"}})
	assert.NotEmpty(t, req.AttemptID)

	plan, err := svc.Plan(context.Background(), req, PlatformOtherMobile)
	require.NoError(t, err)
	assert.Equal(t, "metawallet://app/social-app?ref=twitter", plan.SchemeURI)
	assert.Equal(t, "https://wallet.example.com/app/social-app", plan.FallbackURI)
	assert.Equal(t, FallbackWeb, plan.FallbackKind)
	assert.Equal(t, int64(600), plan.TimeoutMs)

	plan, err = svc.Plan(context.Background(), req, PlatformDesktop)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnsupportedPlatform, plan.Outcome)
	assert.Empty(t, plan.SchemeURI)
}
