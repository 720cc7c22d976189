package preview_service

import (
	"fmt"
	"net/url"
	"strings"

	model "mini-app-gateway/models"
	"mini-app-gateway/registry"
)

// MetaTag one <meta> element. Attr is "property" for Open Graph and "name" for Twitter.
type MetaTag struct {
	Attr    string
	Key     string
	Content string
}

// PreviewMeta resolved social-preview metadata for one share URL
type PreviewMeta struct {
	Found       bool
	AppID       string
	Title       string
	Description string
	Image       string
	URL         string
	Rating      string
	Tags        []MetaTag
}

// Options responder settings
type Options struct {
	BaseURL             string
	ProductLine         string
	NotFoundTitle       string
	NotFoundDescription string
}

// PreviewService builds Open Graph / Twitter-card metadata. Stateless.
type PreviewService struct {
	opts Options
}

// NewPreviewService 创建预览服务实例
func NewPreviewService(opts Options) *PreviewService {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &PreviewService{opts: opts}
}

// ProductLine host product name shown in titles
func (s *PreviewService) ProductLine() string {
	return s.opts.ProductLine
}

// Title "{name} - {productLine} Mini-App"
func (s *PreviewService) Title(app *model.AppMetadata) string {
	return fmt.Sprintf("%s - %s Mini-App", app.Name, s.opts.ProductLine)
}

// CanonicalURL {baseUrl}/app/{appId}
func (s *PreviewService) CanonicalURL(appID string) string {
	return s.opts.BaseURL + "/app/" + url.PathEscape(appID)
}

// CardURL preview card image route for appID
func (s *PreviewService) CardURL(appID string) string {
	return s.opts.BaseURL + "/api/og/share/" + url.PathEscape(appID)
}

// BuildMeta renders metadata for an approved app, or the not-found set when app is nil.
// It never fails.
func (s *PreviewService) BuildMeta(appID string, app *model.AppMetadata) *PreviewMeta {
	if app == nil {
		return s.NotFoundMeta(appID)
	}

	meta := &PreviewMeta{
		Found:       true,
		AppID:       app.AppID,
		Title:       s.Title(app),
		Description: app.Description,
		Image:       app.Icon,
		URL:         s.CanonicalURL(app.AppID),
		Rating:      registry.FormatAppRating(app),
	}
	if meta.Description == "" {
		meta.Description = fmt.Sprintf("Open %s in %s.", app.Name, s.opts.ProductLine)
	}
	// tags are never omitted
	if meta.Image == "" {
		meta.Image = s.CardURL(app.AppID)
	}
	meta.Tags = s.tags(meta)
	return meta
}

// NotFoundMeta fixed fallback set for unresolved or non-public apps
func (s *PreviewService) NotFoundMeta(appID string) *PreviewMeta {
	meta := &PreviewMeta{
		AppID:       appID,
		Title:       s.opts.NotFoundTitle,
		Description: s.opts.NotFoundDescription,
		Image:       s.CardURL(appID),
		URL:         s.CanonicalURL(appID),
	}
	meta.Tags = s.tags(meta)
	return meta
}

func (s *PreviewService) tags(meta *PreviewMeta) []MetaTag {
	return []MetaTag{
		{"property", "og:type", "website"},
		{"property", "og:site_name", s.opts.ProductLine},
		{"property", "og:title", meta.Title},
		{"property", "og:description", meta.Description},
		{"property", "og:image", meta.Image},
		{"property", "og:url", meta.URL},
		{"name", "twitter:card", "summary_large_image"},
		{"name", "twitter:title", meta.Title},
		{"name", "twitter:description", meta.Description},
		{"name", "twitter:image", meta.Image},
	}
}

// Tag returns the content of the first tag with key
func (m *PreviewMeta) Tag(key string) string {
	for _, t := range m.Tags {
		if t.Key == key {
			return t.Content
		}
	}
	return ""
}
