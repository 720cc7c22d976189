package registry_service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mini-app-gateway/database"
	model "mini-app-gateway/models"
	"mini-app-gateway/models/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *RegistryService {
	t.Helper()
	db, err := database.NewPebbleDatabase(&database.PebbleConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewRegistryServiceWithDAO(dao.NewAppDAOWithDB(db))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return s
}

func TestUpsertTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    model.ApprovalStatus
		to      model.ApprovalStatus
		wantErr bool
	}{
		{"pending to approved", model.ApprovalPending, model.ApprovalApproved, false},
		{"pending to rejected", model.ApprovalPending, model.ApprovalRejected, false},
		{"approved stays approved", model.ApprovalApproved, model.ApprovalApproved, false},
		{"approved to pending", model.ApprovalApproved, model.ApprovalPending, true},
		{"approved to rejected", model.ApprovalApproved, model.ApprovalRejected, true},
		{"rejected to approved", model.ApprovalRejected, model.ApprovalApproved, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)
			require.NoError(t, s.Upsert(&model.AppMetadata{AppID: "app", Name: "App", ApprovalStatus: tt.from}))

			err := s.Upsert(&model.AppMetadata{AppID: "app", Name: "App v2", ApprovalStatus: tt.to})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				stored, getErr := s.GetApp("app")
				require.NoError(t, getErr)
				assert.Equal(t, tt.from, stored.ApprovalStatus)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUpsertNormalizesAndKeepsCreatedAt(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.Upsert(&model.AppMetadata{AppID: " game-app ", Name: "Game", Category: "gaming"}))
	first, err := s.GetApp("game-app")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryGames, first.Category)
	assert.Equal(t, model.ApprovalPending, first.ApprovalStatus)

	require.NoError(t, s.Upsert(&model.AppMetadata{AppID: "game-app", Name: "Game 2", Category: "games"}))
	second, err := s.GetApp("game-app")
	require.NoError(t, err)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestUpsertWithoutStatusKeepsModeration(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.Upsert(&model.AppMetadata{AppID: "app", Name: "App", ApprovalStatus: model.ApprovalApproved}))
	require.NoError(t, s.Upsert(&model.AppMetadata{AppID: "app", Name: "App renamed"}))

	stored, err := s.GetApp("app")
	require.NoError(t, err)
	assert.Equal(t, "App renamed", stored.Name)
	assert.Equal(t, model.ApprovalApproved, stored.ApprovalStatus)
}

func TestUpsertValidation(t *testing.T) {
	s := newTestService(t)
	bad := 7.0

	assert.ErrorIs(t, s.Upsert(&model.AppMetadata{Name: "no id"}), ErrInvalidApp)
	assert.ErrorIs(t, s.Upsert(&model.AppMetadata{AppID: "x"}), ErrInvalidApp)
	assert.ErrorIs(t, s.Upsert(&model.AppMetadata{AppID: "x", Name: "X", ApprovalStatus: "banned"}), ErrInvalidApp)
	assert.ErrorIs(t, s.Upsert(&model.AppMetadata{AppID: "x", Name: "X", Rating: &bad}), ErrInvalidApp)
}

func TestImportSeed(t *testing.T) {
	s := newTestService(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`apps:
  - app_id: social-app
    name: Social Hub
    developer_name: Hub Labs
    category: social
    approval_status: approved
    rating: 4.5
  - app_id: nft-app
    name: Collectibles
    category: nft
  - name: missing id
`), 0o644))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, seed.Apps, 3)

	assert.Equal(t, 2, s.ImportSeed(seed))

	stats, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalApps)

	nft, err := s.GetApp("nft-app")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryCollect, nft.Category)

	collect, _, err := s.ListAppsByCategory(model.CategoryCollect, 0, 10)
	require.NoError(t, err)
	assert.Len(t, collect, 1)
}
