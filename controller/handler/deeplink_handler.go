package handler

import (
	"errors"

	"mini-app-gateway/controller/respond"
	model "mini-app-gateway/models"
	"mini-app-gateway/registry"
	"mini-app-gateway/service/deeplink_service"

	"github.com/gin-gonic/gin"
)

// DeepLinkHandler navigation plan API
type DeepLinkHandler struct {
	deeplink *deeplink_service.DeepLinkService
}

// NewDeepLinkHandler 创建深链处理器实例
func NewDeepLinkHandler(deeplink *deeplink_service.DeepLinkService) *DeepLinkHandler {
	return &DeepLinkHandler{deeplink: deeplink}
}

// GetPlan 获取打开 App 的候选链接
// @Summary Navigation plan
// @Description Candidate URIs (custom scheme, universal link, store/web fallback) and race timeout for the requesting platform
// @Tags DeepLink
// @Produce json
// @Param appId path string true "App ID"
// @Param path query string false "In-app route"
// @Param platform query string false "ios|android|desktop|other-mobile, detected from User-Agent when omitted"
// @Success 200 {object} respond.Response{data=deeplink_service.Plan}
// @Router /api/v1/deeplink/{appId} [get]
func (h *DeepLinkHandler) GetPlan(c *gin.Context) {
	appID := c.Param("appId")

	params, err := model.ParseParams(c.Request.URL.RawQuery, "path", "platform")
	if err != nil {
		respond.InvalidParam(c, err.Error())
		return
	}

	req := h.deeplink.NewRequest(appID, c.Query("path"), params)
	platform := deeplink_service.ParsePlatform(c.Query("platform"), c.Request.UserAgent())

	plan, err := h.deeplink.Plan(c.Request.Context(), req, platform)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrAppNotFound), errors.Is(err, registry.ErrAppNotApproved):
			// same answer for both, moderation state is not disclosed
			respond.NotFound(c, "app not found")
		case errors.Is(err, registry.ErrRegistryUnavailable):
			respond.Unavailable(c, "registry unavailable, try again")
		default:
			respond.ServerError(c, err.Error())
		}
		return
	}

	respond.Success(c, plan)
}
