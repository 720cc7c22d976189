package database

import (
	model "mini-app-gateway/models"
)

// Database interface for different database implementations
type Database interface {
	// App operations
	PutApp(app *model.AppMetadata) error
	GetAppByID(appID string) (*model.AppMetadata, error)
	ListAppsWithCursor(cursor int64, size int) ([]*model.AppMetadata, int64, error)
	ListAppsByCategoryWithCursor(category model.Category, cursor int64, size int) ([]*model.AppMetadata, int64, error)
	CountApps() (int64, error)

	// General operations
	Close() error
}

// DBType database type
type DBType string

const (
	DBTypePebble DBType = "pebble"
)

// Global database instance
var DB Database

// InitDatabase initialize database with specified type
func InitDatabase(dbType DBType, config interface{}) error {
	var err error

	switch dbType {
	case DBTypePebble:
		DB, err = NewPebbleDatabase(config)
	default:
		return ErrUnsupportedDBType
	}

	return err
}
