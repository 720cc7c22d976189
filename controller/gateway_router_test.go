package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"mini-app-gateway/conf"
	"mini-app-gateway/controller/middleware"
	"mini-app-gateway/controller/respond"
	model "mini-app-gateway/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	facebookUA = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"
	iPhoneUA   = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	desktopUA  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// fakeGateway in-memory registry that counts lookups
type fakeGateway struct {
	mu    sync.Mutex
	apps  map[string]*model.AppMetadata
	err   error
	calls int
}

func (g *fakeGateway) GetApp(ctx context.Context, appID string) (*model.AppMetadata, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.apps[appID], nil
}

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newFakeGateway() *fakeGateway {
	rating := 4.6
	return &fakeGateway{apps: map[string]*model.AppMetadata{
		"social-hub": {
			AppID:          "social-hub",
			Name:           "Social Hub",
			Description:    "Chat with friends **on-chain**.",
			Icon:           "https://cdn.example.com/icons/social-hub.png",
			DeveloperName:  "Hub Labs",
			Category:       model.CategorySocial,
			ApprovalStatus: model.ApprovalApproved,
			Rating:         &rating,
		},
		"yield-desk": {
			AppID:          "yield-desk",
			Name:           "Yield Desk",
			Category:       model.CategoryEarn,
			ApprovalStatus: model.ApprovalPending,
		},
	}}
}

func newTestGatewayRouter(t *testing.T, gw *fakeGateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf.Cfg = conf.Default()
	r, err := SetupGatewayRouter(gw)
	require.NoError(t, err)
	return r
}

func get(r http.Handler, path, ua string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCrawlerUnknownAppGetsFallbackPreview(t *testing.T) {
	r := newTestGatewayRouter(t, newFakeGateway())

	w := get(r, "/app/unknown-xyz", facebookUA)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, middleware.DirectiveIndex, w.Header().Get(middleware.HeaderRobotsTag))
	body := w.Body.String()
	assert.Contains(t, body, `property="og:title" content="Mini-App Not Found"`)
	assert.Contains(t, body, `name="twitter:card" content="summary_large_image"`)
	assert.Contains(t, body, `property="og:image" content="http://localhost:7290/api/og/share/unknown-xyz"`)
	assert.NotContains(t, body, "open-in-app")
}

func TestCrawlerApprovedAppGetsFullPreview(t *testing.T) {
	r := newTestGatewayRouter(t, newFakeGateway())

	w := get(r, "/app/social-hub", facebookUA)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `property="og:title" content="Social Hub - MetaWallet Mini-App"`)
	assert.Contains(t, body, `property="og:url" content="http://localhost:7290/app/social-hub"`)
	assert.Contains(t, body, "<strong>on-chain</strong>")
	assert.Contains(t, body, "4.6")
	assert.NotContains(t, body, "open-in-app")
}

func TestCrawlerRegistryDownStillGets200(t *testing.T) {
	gw := newFakeGateway()
	gw.err = errors.New("connection refused")
	r := newTestGatewayRouter(t, gw)

	w := get(r, "/app/social-hub", "Twitterbot/1.0")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `content="Mini-App Not Found"`)
}

func TestHumanSharePage(t *testing.T) {
	t.Run("approved app renders open action", func(t *testing.T) {
		gw := newFakeGateway()
		r := newTestGatewayRouter(t, gw)

		w := get(r, "/app/social-hub?path=/chat&room=42", iPhoneUA)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `id="open-in-app"`)
		assert.Contains(t, body, "Open in MetaWallet")
		assert.Contains(t, body, "fell-back-to-web")
		// page and navigation plan share one registry lookup
		assert.Equal(t, 1, gw.Calls())
	})

	t.Run("unknown app is 404", func(t *testing.T) {
		r := newTestGatewayRouter(t, newFakeGateway())
		w := get(r, "/app/unknown-xyz", iPhoneUA)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Mini-App Not Found")
	})

	t.Run("pending app is indistinguishable from unknown", func(t *testing.T) {
		r := newTestGatewayRouter(t, newFakeGateway())
		w := get(r, "/app/yield-desk", iPhoneUA)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotContains(t, w.Body.String(), "Yield Desk")
	})

	t.Run("registry down is 503 with retry", func(t *testing.T) {
		gw := newFakeGateway()
		gw.err = errors.New("connection refused")
		r := newTestGatewayRouter(t, gw)

		w := get(r, "/app/social-hub", desktopUA)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `href="/app/social-hub"`)
	})
}

func TestShareImage(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		width, height int
	}{
		{"default card", "/api/og/share/social-hub", 1200, 630},
		{"square card", "/api/og/share/social-hub/square", 630, 630},
		{"unknown app gets generic card", "/api/og/share/unknown-xyz", 1200, 630},
	}

	r := newTestGatewayRouter(t, newFakeGateway())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path, "Slackbot-LinkExpanding 1.0")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
			assert.Equal(t, middleware.DirectiveIndex, w.Header().Get(middleware.HeaderRobotsTag))

			cfg, err := png.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, tt.width, cfg.Width)
			assert.Equal(t, tt.height, cfg.Height)
		})
	}
}

func TestShareImageETag(t *testing.T) {
	r := newTestGatewayRouter(t, newFakeGateway())

	first := get(r, "/api/og/share/social-hub", "")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/og/share/social-hub", nil)
	req.Header.Set("If-None-Match", etag)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Equal(t, 0, w.Body.Len())
}

func TestOpenLandingRedirectsToSharePage(t *testing.T) {
	r := newTestGatewayRouter(t, newFakeGateway())

	w := get(r, "/open/social-hub?path=%2Fchat&room=42", iPhoneUA)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:7290/app/social-hub?path=%2Fchat&room=42", w.Header().Get("Location"))
	assert.Equal(t, middleware.DirectiveNoIndex, w.Header().Get(middleware.HeaderRobotsTag))
}

type planEnvelope struct {
	Code int `json:"code"`
	Data struct {
		AppID         string `json:"app_id"`
		Platform      string `json:"platform"`
		SchemeURI     string `json:"scheme_uri"`
		UniversalLink string `json:"universal_link"`
		FallbackURI   string `json:"fallback_uri"`
		FallbackKind  string `json:"fallback_kind"`
		TimeoutMs     int64  `json:"timeout_ms"`
		Outcome       string `json:"outcome"`
	} `json:"data"`
}

func getPlan(t *testing.T, r http.Handler, path, ua string) planEnvelope {
	t.Helper()
	w := get(r, path, ua)
	require.Equal(t, http.StatusOK, w.Code)
	var env planEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestDeepLinkPlanAPI(t *testing.T) {
	t.Run("android plan keeps param order", func(t *testing.T) {
		r := newTestGatewayRouter(t, newFakeGateway())

		env := getPlan(t, r, "/api/v1/deeplink/social-hub?path=/chat&room=42&ref=x&platform=android", "")

		assert.Equal(t, respond.CodeSuccess, env.Code)
		assert.Equal(t, "android", env.Data.Platform)
		assert.Equal(t, "metawallet://app/social-hub?path=%2Fchat&room=42&ref=x", env.Data.SchemeURI)
		assert.Equal(t, "https://localhost:7290/open/social-hub?path=%2Fchat&room=42&ref=x", env.Data.UniversalLink)
		assert.Equal(t, "web", env.Data.FallbackKind)
		assert.Equal(t, "https://localhost:7290/app/social-hub", env.Data.FallbackURI)
		assert.Equal(t, int64(600), env.Data.TimeoutMs)
		assert.Empty(t, env.Data.Outcome)
	})

	t.Run("desktop is unsupported", func(t *testing.T) {
		r := newTestGatewayRouter(t, newFakeGateway())

		env := getPlan(t, r, "/api/v1/deeplink/social-hub", desktopUA)

		assert.Equal(t, respond.CodeSuccess, env.Code)
		assert.Equal(t, string(model.OutcomeUnsupportedPlatform), env.Data.Outcome)
		assert.Empty(t, env.Data.SchemeURI)
		assert.Empty(t, env.Data.FallbackURI)
	})

	t.Run("unknown and pending apps are not found", func(t *testing.T) {
		r := newTestGatewayRouter(t, newFakeGateway())
		assert.Equal(t, respond.CodeNotFound, getPlan(t, r, "/api/v1/deeplink/unknown-xyz", iPhoneUA).Code)
		assert.Equal(t, respond.CodeNotFound, getPlan(t, r, "/api/v1/deeplink/yield-desk", iPhoneUA).Code)
	})

	t.Run("registry down is unavailable", func(t *testing.T) {
		gw := newFakeGateway()
		gw.err = errors.New("connection refused")
		r := newTestGatewayRouter(t, gw)
		assert.Equal(t, respond.CodeUnavailable, getPlan(t, r, "/api/v1/deeplink/social-hub", iPhoneUA).Code)
	})
}

func TestWellKnownFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conf.Cfg = conf.Default()
	conf.Cfg.DeepLink.IosAppIds = []string{"ABCDE12345.com.example.metawallet"}
	conf.Cfg.DeepLink.AndroidPackage = "com.example.metawallet"
	conf.Cfg.DeepLink.AndroidCertFingerprints = []string{"AA:BB"}
	r, err := SetupGatewayRouter(newFakeGateway())
	require.NoError(t, err)

	w := get(r, "/.well-known/apple-app-site-association", "")
	require.Equal(t, http.StatusOK, w.Code)
	var aasa struct {
		Applinks struct {
			Details []struct {
				AppIDs []string `json:"appIDs"`
				Paths  []string `json:"paths"`
			} `json:"details"`
		} `json:"applinks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aasa))
	require.Len(t, aasa.Applinks.Details, 1)
	assert.Equal(t, []string{"ABCDE12345.com.example.metawallet"}, aasa.Applinks.Details[0].AppIDs)
	assert.Equal(t, []string{"/open/*"}, aasa.Applinks.Details[0].Paths)

	w = get(r, "/.well-known/assetlinks.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var links []struct {
		Target struct {
			PackageName string   `json:"package_name"`
			Prints      []string `json:"sha256_cert_fingerprints"`
		} `json:"target"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &links))
	require.Len(t, links, 1)
	assert.Equal(t, "com.example.metawallet", links[0].Target.PackageName)
	assert.Equal(t, []string{"AA:BB"}, links[0].Target.Prints)
}

func TestRobotsAndIndexingHeaders(t *testing.T) {
	r := newTestGatewayRouter(t, newFakeGateway())

	w := get(r, "/robots.txt", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User-agent: *\nAllow: /api/og/share\nAllow: /app\nDisallow: /\n", w.Body.String())

	w = get(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, middleware.DirectiveNoIndex, w.Header().Get(middleware.HeaderRobotsTag))

	w = get(r, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "miniapp_gateway_")
}
