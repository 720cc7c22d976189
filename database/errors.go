package database

import "errors"

var (
	// ErrNotFound record not found
	ErrNotFound = errors.New("record not found")

	// ErrUnsupportedDBType unsupported database type
	ErrUnsupportedDBType = errors.New("unsupported database type")

	// ErrDatabaseNotInitialized database is not initialized
	ErrDatabaseNotInitialized = errors.New("database not initialized")

	// ErrInvalidRecord record failed validation before write
	ErrInvalidRecord = errors.New("invalid record")
)
