package handler

import (
	"errors"
	"strconv"

	"mini-app-gateway/controller/respond"
	"mini-app-gateway/database"
	model "mini-app-gateway/models"
	"mini-app-gateway/service/registry_service"

	"github.com/gin-gonic/gin"
)

// AppHandler 注册表 App 查询/写入处理器
type AppHandler struct {
	registryService *registry_service.RegistryService
}

// NewAppHandler 创建 App 处理器实例
func NewAppHandler(registryService *registry_service.RegistryService) *AppHandler {
	return &AppHandler{
		registryService: registryService,
	}
}

// parsePage 解析分页参数
func parsePage(c *gin.Context) (int64, int64) {
	cursor, _ := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	size, _ := strconv.ParseInt(c.DefaultQuery("size", "20"), 10, 64)

	if cursor < 0 {
		cursor = 0
	}
	// 限制每页大小
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return cursor, size
}

// ListApps 获取 App 列表（更新时间倒序，可分页）
// @Summary 获取 App 列表
// @Description 获取所有 App，按更新时间倒序排列，支持游标分页
// @Tags Registry
// @Accept json
// @Produce json
// @Param cursor query int false "游标（从 0 开始）" default(0)
// @Param size query int false "每页大小" default(20)
// @Success 200 {object} respond.Response{data=respond.AppListResponse}
// @Router /api/v1/apps [get]
func (h *AppHandler) ListApps(c *gin.Context) {
	cursor, size := parsePage(c)

	apps, nextCursor, err := h.registryService.ListApps(cursor, size)
	if err != nil {
		respond.ServerError(c, err.Error())
		return
	}

	hasMore := int64(len(apps)) == size
	respond.Success(c, respond.ToAppListResponse(apps, nextCursor, hasMore))
}

// ListAppsByCategory 按分类获取 App 列表
// @Summary 按分类获取 App 列表
// @Description 按分类获取 App，旧分类别名（game、defi、nft）会被归一化
// @Tags Registry
// @Accept json
// @Produce json
// @Param category path string true "分类"
// @Param cursor query int false "游标（从 0 开始）" default(0)
// @Param size query int false "每页大小" default(20)
// @Success 200 {object} respond.Response{data=respond.AppListResponse}
// @Router /api/v1/apps/category/{category} [get]
func (h *AppHandler) ListAppsByCategory(c *gin.Context) {
	category := model.ParseCategory(c.Param("category"))
	cursor, size := parsePage(c)

	apps, nextCursor, err := h.registryService.ListAppsByCategory(category, cursor, size)
	if err != nil {
		respond.ServerError(c, err.Error())
		return
	}

	hasMore := int64(len(apps)) == size
	respond.Success(c, respond.ToAppListResponse(apps, nextCursor, hasMore))
}

// GetApp 根据 AppID 获取 App 详情
// @Summary 根据 AppID 获取 App 详情
// @Description 返回 App 元数据（包括审核状态）
// @Tags Registry
// @Accept json
// @Produce json
// @Param appId path string true "App ID"
// @Success 200 {object} respond.Response{data=respond.AppResponse}
// @Router /api/v1/apps/{appId} [get]
func (h *AppHandler) GetApp(c *gin.Context) {
	appID := c.Param("appId")
	if appID == "" {
		respond.InvalidParam(c, "appId is required")
		return
	}

	app, err := h.registryService.GetApp(appID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respond.NotFound(c, "app not found")
			return
		}
		respond.ServerError(c, err.Error())
		return
	}

	respond.Success(c, respond.ToAppResponse(app))
}

// UpsertApp 创建或更新 App
// @Summary 创建或更新 App
// @Description 审核状态只允许 pending -> approved|rejected
// @Tags Registry
// @Accept json
// @Produce json
// @Param appId path string true "App ID"
// @Param request body respond.UpsertAppRequest true "App 元数据"
// @Success 200 {object} respond.Response{data=respond.AppResponse}
// @Router /api/v1/apps/{appId} [put]
func (h *AppHandler) UpsertApp(c *gin.Context) {
	appID := c.Param("appId")

	var req respond.UpsertAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidParam(c, err.Error())
		return
	}

	app := req.ToModel(appID)
	if err := h.registryService.Upsert(app); err != nil {
		if errors.Is(err, registry_service.ErrInvalidTransition) || errors.Is(err, registry_service.ErrInvalidApp) {
			respond.InvalidParam(c, err.Error())
			return
		}
		respond.ServerError(c, err.Error())
		return
	}

	respond.Success(c, respond.ToAppResponse(app))
}

// GetStats 获取统计信息
// @Summary 获取统计信息
// @Description 获取注册表中 App 总数
// @Tags Registry
// @Accept json
// @Produce json
// @Success 200 {object} respond.Response{data=respond.StatsResponse}
// @Router /api/v1/stats [get]
func (h *AppHandler) GetStats(c *gin.Context) {
	stats, err := h.registryService.GetStats()
	if err != nil {
		respond.ServerError(c, err.Error())
		return
	}

	respond.Success(c, respond.ToStatsResponse(stats))
}
