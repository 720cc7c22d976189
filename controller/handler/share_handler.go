package handler

import (
	"bytes"
	"encoding/hex"
	"errors"
	"html/template"
	"net/http"

	"mini-app-gateway/metrics"
	model "mini-app-gateway/models"
	"mini-app-gateway/registry"
	"mini-app-gateway/service/classifier_service"
	"mini-app-gateway/service/deeplink_service"
	"mini-app-gateway/service/preview_service"
	"mini-app-gateway/web"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// ShareHandler canonical share page, preview card and universal-link landing
type ShareHandler struct {
	gw         registry.Gateway
	classifier *classifier_service.ClassifierService
	preview    *preview_service.PreviewService
	cards      *preview_service.CardRenderer
	deeplink   *deeplink_service.DeepLinkService
}

// NewShareHandler 创建分享页处理器实例
func NewShareHandler(
	gw registry.Gateway,
	classifier *classifier_service.ClassifierService,
	preview *preview_service.PreviewService,
	cards *preview_service.CardRenderer,
	deeplink *deeplink_service.DeepLinkService,
) *ShareHandler {
	return &ShareHandler{
		gw:         gw,
		classifier: classifier,
		preview:    preview,
		cards:      cards,
		deeplink:   deeplink,
	}
}

type sharePageData struct {
	Meta            *preview_service.PreviewMeta
	App             *model.AppMetadata
	Rating          string
	DescriptionHTML template.HTML
	ProductLine     string
	Human           bool
	Plan            *deeplink_service.Plan
}

type unavailablePageData struct {
	ProductLine string
	RetryURL    string
}

// resolve looks the app up through the request cache
func (h *ShareHandler) resolve(c *gin.Context, appID string) (*model.AppMetadata, error) {
	ctx := c.Request.Context()
	return registry.ResolveApproved(ctx, registry.FromContext(ctx, h.gw), appID)
}

// SharePage 分享页
// @Summary Canonical share page
// @Description Crawlers get static Open Graph / Twitter-card tags; browsers also get the open-in-app action
// @Tags Share
// @Produce html
// @Param appId path string true "App ID"
// @Success 200 {string} string "HTML page"
// @Router /app/{appId} [get]
func (h *ShareHandler) SharePage(c *gin.Context) {
	appID := c.Param("appId")
	verdict := h.classifier.Classify(c.Request.URL.Path, c.Request.Header)
	metrics.RecordClassification(verdict.CrawlerFamily)

	app, err := h.resolve(c, appID)
	if verdict.IsCrawler {
		h.crawlerPage(c, appID, app, err)
		return
	}

	switch {
	case err == nil:
	case errors.Is(err, registry.ErrAppNotFound), errors.Is(err, registry.ErrAppNotApproved):
		metrics.RecordShareResponse("not_found")
		c.HTML(http.StatusNotFound, web.TemplateNotFound, sharePageData{
			Meta:        h.preview.NotFoundMeta(appID),
			ProductLine: h.preview.ProductLine(),
		})
		return
	default:
		log.WithField("app_id", appID).Warnf("Share page unavailable: %v", err)
		metrics.RecordShareResponse("unavailable")
		c.HTML(http.StatusServiceUnavailable, web.TemplateUnavailable, unavailablePageData{
			ProductLine: h.preview.ProductLine(),
			RetryURL:    c.Request.URL.RequestURI(),
		})
		return
	}

	params, err := model.ParseParams(c.Request.URL.RawQuery, "path", "platform")
	if err != nil {
		params = nil
	}
	req := h.deeplink.NewRequest(appID, c.Query("path"), params)
	platform := deeplink_service.ParsePlatform(c.Query("platform"), c.Request.UserAgent())

	plan, err := h.deeplink.Plan(c.Request.Context(), req, platform)
	if err != nil {
		// the app resolved a moment ago through the same request cache
		log.WithField("app_id", appID).Warnf("Failed to build navigation plan: %v", err)
	}

	metrics.RecordShareResponse("page")
	c.HTML(http.StatusOK, web.TemplateShare, sharePageData{
		Meta:            h.preview.BuildMeta(appID, app),
		App:             app,
		Rating:          registry.FormatAppRating(app),
		DescriptionHTML: web.RenderMarkdown(app.Description),
		ProductLine:     h.preview.ProductLine(),
		Human:           true,
		Plan:            plan,
	})
}

// crawlerPage always answers 200 with a complete tag set and never redirects
func (h *ShareHandler) crawlerPage(c *gin.Context, appID string, app *model.AppMetadata, err error) {
	if err != nil {
		if !errors.Is(err, registry.ErrAppNotFound) && !errors.Is(err, registry.ErrAppNotApproved) {
			log.WithField("app_id", appID).Warnf("Serving fallback preview: %v", err)
		}
		metrics.RecordShareResponse("preview_not_found")
		c.HTML(http.StatusOK, web.TemplateNotFound, sharePageData{
			Meta:        h.preview.NotFoundMeta(appID),
			ProductLine: h.preview.ProductLine(),
		})
		return
	}

	metrics.RecordShareResponse("preview")
	c.HTML(http.StatusOK, web.TemplateShare, sharePageData{
		Meta:            h.preview.BuildMeta(appID, app),
		App:             app,
		Rating:          registry.FormatAppRating(app),
		DescriptionHTML: web.RenderMarkdown(app.Description),
		ProductLine:     h.preview.ProductLine(),
	})
}

// ShareImage 预览卡片图片
// @Summary Preview card image
// @Description PNG card for link previews; unknown apps get the generic card. Variant "square" renders 630x630.
// @Tags Share
// @Produce png
// @Param appId path string true "App ID"
// @Param variant path string false "Card variant"
// @Success 200 {file} file "PNG image"
// @Router /api/og/share/{appId} [get]
func (h *ShareHandler) ShareImage(c *gin.Context) {
	appID := c.Param("appId")
	verdict := h.classifier.Classify(c.Request.URL.Path, c.Request.Header)
	metrics.RecordClassification(verdict.CrawlerFamily)

	app, err := h.resolve(c, appID)
	if err != nil {
		app = nil
	}

	var buf bytes.Buffer
	variant := preview_service.ParseCardVariant(c.Param("variant"))
	if err := h.cards.Render(&buf, app, h.preview.NotFoundMeta(appID).Title, variant); err != nil {
		log.WithField("app_id", appID).Errorf("Failed to render preview card: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	sum := blake2b.Sum256(buf.Bytes())
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	c.Header("Cache-Control", "public, max-age=300")
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		metrics.RecordShareResponse("card_not_modified")
		c.Status(http.StatusNotModified)
		return
	}

	metrics.RecordShareResponse("card")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// OpenLanding 通用链接落地页
// @Summary Universal link landing
// @Description Reached only when the OS did not hand the universal link to the app; redirects to the share page
// @Tags Share
// @Param appId path string true "App ID"
// @Success 302
// @Router /open/{appId} [get]
func (h *ShareHandler) OpenLanding(c *gin.Context) {
	target := h.preview.CanonicalURL(c.Param("appId"))
	if raw := c.Request.URL.RawQuery; raw != "" {
		target += "?" + raw
	}
	c.Redirect(http.StatusFound, target)
}
