package dao

import (
	"mini-app-gateway/database"
	model "mini-app-gateway/models"
)

// AppDAO app registry DAO
type AppDAO struct {
	db database.Database
}

// NewAppDAO 创建 App DAO 实例
func NewAppDAO() *AppDAO {
	return &AppDAO{
		db: database.DB,
	}
}

// NewAppDAOWithDB binds the DAO to an explicit database
func NewAppDAOWithDB(db database.Database) *AppDAO {
	return &AppDAO{db: db}
}

// Put 创建或更新 App 记录
func (d *AppDAO) Put(app *model.AppMetadata) error {
	if d.db == nil {
		return database.ErrDatabaseNotInitialized
	}
	return d.db.PutApp(app)
}

// GetByAppID 根据 AppID 获取 App
func (d *AppDAO) GetByAppID(appID string) (*model.AppMetadata, error) {
	if d.db == nil {
		return nil, database.ErrDatabaseNotInitialized
	}
	return d.db.GetAppByID(appID)
}

// ListWithCursor 获取所有 App 列表（按更新时间倒序，支持分页）
func (d *AppDAO) ListWithCursor(cursor int64, size int) ([]*model.AppMetadata, int64, error) {
	if d.db == nil {
		return nil, 0, database.ErrDatabaseNotInitialized
	}
	return d.db.ListAppsWithCursor(cursor, size)
}

// ListByCategoryWithCursor 按分类获取 App 列表
func (d *AppDAO) ListByCategoryWithCursor(category model.Category, cursor int64, size int) ([]*model.AppMetadata, int64, error) {
	if d.db == nil {
		return nil, 0, database.ErrDatabaseNotInitialized
	}
	return d.db.ListAppsByCategoryWithCursor(category, cursor, size)
}

// Count 统计 App 数量
func (d *AppDAO) Count() (int64, error) {
	if d.db == nil {
		return 0, database.ErrDatabaseNotInitialized
	}
	return d.db.CountApps()
}
