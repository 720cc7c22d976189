package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	model "mini-app-gateway/models"

	"github.com/cockroachdb/pebble"
	log "github.com/sirupsen/logrus"
	"github.com/ubuntu/decorate"
)

// PebbleDatabase PebbleDB database implementation with multiple collections
type PebbleDatabase struct {
	collections map[string]*pebble.DB // Map of collection name to PebbleDB instance
}

// PebbleConfig PebbleDB configuration
type PebbleConfig struct {
	DataDir string
}

// Collection names and their key-value formats
const (
	collectionApp         = "app"          // key: {app_id}, value: JSON(AppMetadata)
	collectionAppUpdated  = "app_updated"  // key: {reverse_updated}:{app_id}, value: JSON(AppMetadata) - newest first
	collectionAppCategory = "app_category" // key: {category}:{reverse_updated}:{app_id}, value: JSON(AppMetadata)
)

// NewPebbleDatabase create PebbleDB database instance with multiple collections
func NewPebbleDatabase(config interface{}) (Database, error) {
	cfg, ok := config.(*PebbleConfig)
	if !ok {
		return nil, fmt.Errorf("invalid PebbleDB config type")
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", cfg.DataDir, err)
	}

	log.Printf("PebbleDB data directory: %s", cfg.DataDir)

	collectionNames := []string{
		collectionApp,
		collectionAppUpdated,
		collectionAppCategory,
	}

	collections := make(map[string]*pebble.DB)
	for _, name := range collectionNames {
		collectionPath := filepath.Join(cfg.DataDir, "registry_db", name)

		db, err := pebble.Open(collectionPath, &pebble.Options{})
		if err != nil {
			// Close previously opened databases
			for _, openedDB := range collections {
				openedDB.Close()
			}
			return nil, fmt.Errorf("failed to open collection %s at %s: %w", name, collectionPath, err)
		}
		collections[name] = db
	}

	log.Printf("PebbleDB database connected successfully with %d collections", len(collections))
	return &PebbleDatabase{collections: collections}, nil
}

// reverseKey orders newer records first under a forward iteration
func reverseKey(app *model.AppMetadata) string {
	reverse := int64(^uint64(0)>>1) - app.UpdatedAt.UnixMilli()
	return fmt.Sprintf("%019d", reverse)
}

func updatedIndexKey(app *model.AppMetadata) []byte {
	return []byte(reverseKey(app) + ":" + app.AppID)
}

func categoryIndexKey(app *model.AppMetadata) []byte {
	return []byte(string(app.Category) + ":" + reverseKey(app) + ":" + app.AppID)
}

// App operations

// PutApp creates or replaces an app and rewrites its secondary indexes
func (p *PebbleDatabase) PutApp(app *model.AppMetadata) (err error) {
	defer decorate.OnError(&err, "could not store app %q", app.AppID)

	if app.AppID == "" {
		return ErrInvalidRecord
	}

	data, err := json.Marshal(app)
	if err != nil {
		return err
	}

	// Drop index entries of the previous version, keys embed the old timestamp/category
	previous, err := p.GetAppByID(app.AppID)
	if err != nil && err != ErrNotFound {
		return err
	}
	if previous != nil {
		if err := p.collections[collectionAppUpdated].Delete(updatedIndexKey(previous), pebble.Sync); err != nil {
			return err
		}
		if err := p.collections[collectionAppCategory].Delete(categoryIndexKey(previous), pebble.Sync); err != nil {
			return err
		}
	}

	if err := p.collections[collectionApp].Set([]byte(app.AppID), data, pebble.Sync); err != nil {
		return err
	}
	if err := p.collections[collectionAppUpdated].Set(updatedIndexKey(app), data, pebble.Sync); err != nil {
		return err
	}
	return p.collections[collectionAppCategory].Set(categoryIndexKey(app), data, pebble.Sync)
}

// GetAppByID get app by id
func (p *PebbleDatabase) GetAppByID(appID string) (*model.AppMetadata, error) {
	data, closer, err := p.collections[collectionApp].Get([]byte(appID))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	var app model.AppMetadata
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, err
	}

	return &app, nil
}

// ListAppsWithCursor list apps newest first, cursor is an offset
func (p *PebbleDatabase) ListAppsWithCursor(cursor int64, size int) ([]*model.AppMetadata, int64, error) {
	return p.scan(collectionAppUpdated, nil, cursor, size)
}

// ListAppsByCategoryWithCursor list apps of one category newest first
func (p *PebbleDatabase) ListAppsByCategoryWithCursor(category model.Category, cursor int64, size int) ([]*model.AppMetadata, int64, error) {
	prefix := string(category) + ":"
	return p.scan(collectionAppCategory, &pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: []byte(prefix + "~"),
	}, cursor, size)
}

// scan iterates a collection, skipping cursor entries and returning up to size apps
func (p *PebbleDatabase) scan(collection string, opts *pebble.IterOptions, cursor int64, size int) ([]*model.AppMetadata, int64, error) {
	if size <= 0 {
		return nil, cursor, nil
	}
	if cursor < 0 {
		cursor = 0
	}

	iter, err := p.collections[collection].NewIter(opts)
	if err != nil {
		return nil, 0, err
	}
	defer iter.Close()

	var (
		apps []*model.AppMetadata
		pos  int64
	)
	for iter.First(); iter.Valid() && len(apps) < size; iter.Next() {
		pos++
		if pos <= cursor {
			continue
		}
		var app model.AppMetadata
		if err := json.Unmarshal(iter.Value(), &app); err != nil {
			log.Printf("Skipping corrupt %s entry %s: %v", collection, iter.Key(), err)
			continue
		}
		apps = append(apps, &app)
	}

	if pos < cursor {
		pos = cursor
	}
	return apps, pos, nil
}

// CountApps count stored apps
func (p *PebbleDatabase) CountApps() (int64, error) {
	iter, err := p.collections[collectionApp].NewIter(nil)
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	var count int64
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}

	return count, nil
}

// Close closes every collection
func (p *PebbleDatabase) Close() error {
	var firstErr error
	for name, db := range p.collections {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close collection %s: %w", name, err)
		}
	}
	return firstErr
}
