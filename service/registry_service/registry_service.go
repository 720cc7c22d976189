package registry_service

import (
	"errors"
	"fmt"
	"time"

	"mini-app-gateway/database"
	model "mini-app-gateway/models"
	"mini-app-gateway/models/dao"

	log "github.com/sirupsen/logrus"
	"github.com/ubuntu/decorate"
)

var (
	// ErrInvalidTransition approval status change not allowed
	ErrInvalidTransition = errors.New("invalid approval status transition")

	// ErrInvalidApp record failed validation
	ErrInvalidApp = errors.New("invalid app metadata")
)

// RegistryService app registry service
type RegistryService struct {
	appDAO *dao.AppDAO
	now    func() time.Time
}

// NewRegistryService 创建注册表服务实例
func NewRegistryService() *RegistryService {
	return NewRegistryServiceWithDAO(dao.NewAppDAO())
}

// NewRegistryServiceWithDAO create registry service over an explicit DAO
func NewRegistryServiceWithDAO(appDAO *dao.AppDAO) *RegistryService {
	return &RegistryService{
		appDAO: appDAO,
		now:    time.Now,
	}
}

// Stats registry statistics
type Stats struct {
	TotalApps int64 `json:"total_apps"`
}

// canTransition reports whether the registry accepts moving from one status to another.
// Only pending records may change status; approved and rejected are final.
func canTransition(from, to model.ApprovalStatus) bool {
	if from == to {
		return true
	}
	return from == model.ApprovalPending && (to == model.ApprovalApproved || to == model.ApprovalRejected)
}

func validStatus(s model.ApprovalStatus) bool {
	switch s {
	case model.ApprovalPending, model.ApprovalApproved, model.ApprovalRejected:
		return true
	}
	return false
}

// Upsert 创建或更新 App，校验审核状态流转
func (s *RegistryService) Upsert(app *model.AppMetadata) (err error) {
	defer decorate.OnError(&err, "upsert app %q", app.AppID)

	keepStatus := app.ApprovalStatus == ""
	app.Normalize()
	if app.AppID == "" || app.Name == "" {
		return fmt.Errorf("%w: app_id and name are required", ErrInvalidApp)
	}
	if !validStatus(app.ApprovalStatus) {
		return fmt.Errorf("%w: unknown approval status %q", ErrInvalidApp, app.ApprovalStatus)
	}
	if app.Rating != nil && (*app.Rating < 0 || *app.Rating > 5) {
		return fmt.Errorf("%w: rating %.2f out of range", ErrInvalidApp, *app.Rating)
	}

	now := s.now()
	existing, err := s.appDAO.GetByAppID(app.AppID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		app.CreatedAt = now
	case err != nil:
		return err
	default:
		// metadata-only updates leave moderation alone
		if keepStatus {
			app.ApprovalStatus = existing.ApprovalStatus
		}
		if !canTransition(existing.ApprovalStatus, app.ApprovalStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.ApprovalStatus, app.ApprovalStatus)
		}
		app.CreatedAt = existing.CreatedAt
	}
	app.UpdatedAt = now

	if err := s.appDAO.Put(app); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"app_id": app.AppID,
		"status": app.ApprovalStatus,
	}).Debug("app stored")
	return nil
}

// GetApp 根据 AppID 获取 App
func (s *RegistryService) GetApp(appID string) (*model.AppMetadata, error) {
	return s.appDAO.GetByAppID(appID)
}

// ListApps 获取 App 列表（更新时间倒序，可分页）
func (s *RegistryService) ListApps(cursor, size int64) ([]*model.AppMetadata, int64, error) {
	return s.appDAO.ListWithCursor(cursor, int(size))
}

// ListAppsByCategory 按分类获取 App 列表
func (s *RegistryService) ListAppsByCategory(category model.Category, cursor, size int64) ([]*model.AppMetadata, int64, error) {
	return s.appDAO.ListByCategoryWithCursor(category, cursor, int(size))
}

// GetStats 获取统计信息
func (s *RegistryService) GetStats() (*Stats, error) {
	total, err := s.appDAO.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count apps: %w", err)
	}
	return &Stats{TotalApps: total}, nil
}
