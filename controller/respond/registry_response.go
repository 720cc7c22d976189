package respond

import (
	"time"

	model "mini-app-gateway/models"
	"mini-app-gateway/service/registry_service"
)

// AppResponse app metadata response structure
type AppResponse struct {
	AppID          string   `json:"app_id" example:"social-app"`
	Name           string   `json:"name" example:"Social Hub"`
	Description    string   `json:"description" example:"Chat with friends on-chain."`
	Icon           string   `json:"icon" example:"https://cdn.example.com/icons/social.png"`
	DeveloperName  string   `json:"developer_name" example:"Hub Labs"`
	Category       string   `json:"category" example:"social"`
	ApprovalStatus string   `json:"approval_status" example:"approved"`
	Rating         *float64 `json:"rating" example:"4.5"`
	CreatedAt      int64    `json:"created_at" example:"1767225600000"`
	UpdatedAt      int64    `json:"updated_at" example:"1767225600000"`
}

// AppListResponse app list response structure
type AppListResponse struct {
	List       []*AppResponse `json:"list"`
	NextCursor int64          `json:"next_cursor" example:"20"`
	HasMore    bool           `json:"has_more" example:"true"`
}

// UpsertAppRequest app upsert request body
type UpsertAppRequest struct {
	Name           string   `json:"name" binding:"required" example:"Social Hub"`
	Description    string   `json:"description" example:"Chat with friends on-chain."`
	Icon           string   `json:"icon" example:"https://cdn.example.com/icons/social.png"`
	DeveloperName  string   `json:"developer_name" example:"Hub Labs"`
	Category       string   `json:"category" example:"social"`
	ApprovalStatus string   `json:"approval_status" example:"pending"`
	Rating         *float64 `json:"rating" example:"4.5"`
}

// StatsResponse registry statistics response
type StatsResponse struct {
	TotalApps int64 `json:"total_apps" example:"42"`
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// ToAppResponse convert model to response
func ToAppResponse(app *model.AppMetadata) *AppResponse {
	return &AppResponse{
		AppID:          app.AppID,
		Name:           app.Name,
		Description:    app.Description,
		Icon:           app.Icon,
		DeveloperName:  app.DeveloperName,
		Category:       string(app.Category),
		ApprovalStatus: string(app.ApprovalStatus),
		Rating:         app.Rating,
		CreatedAt:      toMillis(app.CreatedAt),
		UpdatedAt:      toMillis(app.UpdatedAt),
	}
}

// ToAppListResponse convert app list to response
func ToAppListResponse(apps []*model.AppMetadata, nextCursor int64, hasMore bool) *AppListResponse {
	list := make([]*AppResponse, 0, len(apps))
	for _, app := range apps {
		list = append(list, ToAppResponse(app))
	}
	return &AppListResponse{
		List:       list,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
}

// ToModel build the record to upsert for appID
func (r *UpsertAppRequest) ToModel(appID string) *model.AppMetadata {
	return &model.AppMetadata{
		AppID:          appID,
		Name:           r.Name,
		Description:    r.Description,
		Icon:           r.Icon,
		DeveloperName:  r.DeveloperName,
		Category:       model.Category(r.Category),
		ApprovalStatus: model.ApprovalStatus(r.ApprovalStatus),
		Rating:         r.Rating,
	}
}

// ToStatsResponse convert stats to response
func ToStatsResponse(stats *registry_service.Stats) *StatsResponse {
	return &StatsResponse{TotalApps: stats.TotalApps}
}
