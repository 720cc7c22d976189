package deeplink_service

import (
	"net/url"
	"strings"
	"time"

	model "mini-app-gateway/models"
)

// FallbackKind which fallback a platform uses when the host app does not take over
type FallbackKind string

const (
	FallbackStore FallbackKind = "store"
	FallbackWeb   FallbackKind = "web"
)

// Outcome navigation outcome reported for this fallback
func (k FallbackKind) Outcome() model.NavigationOutcome {
	if k == FallbackStore {
		return model.OutcomeFellBackToStore
	}
	return model.OutcomeFellBackToWeb
}

// Options resolver settings
type Options struct {
	Scheme            string // custom URI scheme, e.g. "metawallet"
	HostDomain        string // universal link host
	VisibilityTimeout time.Duration
	IOSStoreURL       string
	AndroidStoreURL   string
}

// payloadQuery path first, then params in the supplied order
func payloadQuery(req *model.DeepLinkRequest) string {
	var parts []string
	if req.Path != "" {
		parts = append(parts, "path="+url.QueryEscape(req.Path))
	}
	if encoded := req.Params.Encode(); encoded != "" {
		parts = append(parts, encoded)
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

// SchemeURI {scheme}://app/{appId}?path={path}&{k}={v}...
func (o Options) SchemeURI(req *model.DeepLinkRequest) string {
	return o.Scheme + "://app/" + url.PathEscape(req.AppID) + payloadQuery(req)
}

// UniversalLink https://{hostDomain}/open/{appId}?path={path}&{k}={v}...
func (o Options) UniversalLink(req *model.DeepLinkRequest) string {
	return "https://" + o.HostDomain + "/open/" + url.PathEscape(req.AppID) + payloadQuery(req)
}

// WebFallback https://{hostDomain}/app/{appId}
func (o Options) WebFallback(appID string) string {
	return "https://" + o.HostDomain + "/app/" + url.PathEscape(appID)
}

// storeURL configured store page for p, empty when none
func (o Options) storeURL(p Platform) string {
	switch p {
	case PlatformIOS:
		return o.IOSStoreURL
	case PlatformAndroid:
		return o.AndroidStoreURL
	}
	return ""
}

// FallbackKindFor decides the fallback kind without building the URI
func (o Options) FallbackKindFor(p Platform) FallbackKind {
	if o.storeURL(p) != "" {
		return FallbackStore
	}
	return FallbackWeb
}

// FallbackURI store page when configured for p, otherwise the canonical share page
func (o Options) FallbackURI(p Platform, appID string) (string, FallbackKind) {
	if store := o.storeURL(p); store != "" {
		return store, FallbackStore
	}
	return o.WebFallback(appID), FallbackWeb
}
