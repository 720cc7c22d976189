package registry

import (
	"context"
	"errors"
	"testing"

	model "mini-app-gateway/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	apps  map[string]*model.AppMetadata
	err   error
	calls int
}

func (s *stubGateway) GetApp(_ context.Context, appID string) (*model.AppMetadata, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.apps[appID], nil
}

func rating(v float64) *float64 { return &v }

func TestFormatAppRating(t *testing.T) {
	assert.Equal(t, "New", FormatAppRating(nil))
	assert.Equal(t, "New", FormatAppRating(&model.AppMetadata{}))
	assert.Equal(t, "4.0", FormatAppRating(&model.AppMetadata{Rating: rating(4)}))
	assert.Equal(t, "3.7", FormatAppRating(&model.AppMetadata{Rating: rating(3.66)}))
	assert.Equal(t, "0.0", FormatAppRating(&model.AppMetadata{Rating: rating(0)}))
}

func TestIsAppApproved(t *testing.T) {
	assert.False(t, IsAppApproved(nil))
	assert.False(t, IsAppApproved(&model.AppMetadata{ApprovalStatus: model.ApprovalPending}))
	assert.False(t, IsAppApproved(&model.AppMetadata{ApprovalStatus: model.ApprovalRejected}))
	assert.True(t, IsAppApproved(&model.AppMetadata{ApprovalStatus: model.ApprovalApproved}))
}

func TestResolveApproved(t *testing.T) {
	gw := &stubGateway{apps: map[string]*model.AppMetadata{
		"social-app": {AppID: "social-app", ApprovalStatus: model.ApprovalApproved},
		"draft-app":  {AppID: "draft-app", ApprovalStatus: model.ApprovalPending},
	}}

	app, err := ResolveApproved(context.Background(), gw, "social-app")
	require.NoError(t, err)
	assert.Equal(t, "social-app", app.AppID)

	_, err = ResolveApproved(context.Background(), gw, "draft-app")
	assert.ErrorIs(t, err, ErrAppNotApproved)

	_, err = ResolveApproved(context.Background(), gw, "unknown-xyz")
	assert.ErrorIs(t, err, ErrAppNotFound)

	_, err = ResolveApproved(context.Background(), gw, "")
	assert.ErrorIs(t, err, ErrAppNotFound)

	_, err = ResolveApproved(context.Background(), &stubGateway{err: errors.New("dial tcp: refused")}, "social-app")
	assert.ErrorIs(t, err, ErrRegistryUnavailable)
}

func TestRequestCacheMemoises(t *testing.T) {
	gw := &stubGateway{apps: map[string]*model.AppMetadata{
		"social-app": {AppID: "social-app"},
	}}
	cache := NewRequestCache(gw)
	ctx := WithRequestCache(context.Background(), cache)

	for i := 0; i < 3; i++ {
		_, err := FromContext(ctx, gw).GetApp(ctx, "social-app")
		require.NoError(t, err)
		app, err := FromContext(ctx, gw).GetApp(ctx, "unknown-xyz")
		require.NoError(t, err)
		assert.Nil(t, app)
	}
	assert.Equal(t, 2, gw.calls)

	assert.Same(t, gw, FromContext(context.Background(), gw))
}
