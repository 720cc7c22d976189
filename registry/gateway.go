// Package registry is the gateway's read-only view of the external app registry.
package registry

import (
	"context"
	"errors"
	"fmt"

	model "mini-app-gateway/models"
)

var (
	// ErrAppNotFound appId unresolved
	ErrAppNotFound = errors.New("app not found")

	// ErrAppNotApproved app exists but is not publicly resolvable
	ErrAppNotApproved = errors.New("app not approved")

	// ErrRegistryUnavailable the registry errored or its breaker is open
	ErrRegistryUnavailable = errors.New("registry unavailable")
)

// Gateway resolves app metadata. A nil app with a nil error means not found.
type Gateway interface {
	GetApp(ctx context.Context, appID string) (*model.AppMetadata, error)
}

// IsAppApproved reports whether the app may be publicly resolved
func IsAppApproved(app *model.AppMetadata) bool {
	return app != nil && app.ApprovalStatus == model.ApprovalApproved
}

// FormatAppRating renders the rating with one decimal, or "New" before any review
func FormatAppRating(app *model.AppMetadata) string {
	if app == nil || app.Rating == nil {
		return "New"
	}
	return fmt.Sprintf("%.1f", *app.Rating)
}

// ResolveApproved looks up appID and requires it to be approved.
// Errors are ErrAppNotFound, ErrAppNotApproved or wrap ErrRegistryUnavailable.
func ResolveApproved(ctx context.Context, gw Gateway, appID string) (*model.AppMetadata, error) {
	if appID == "" {
		return nil, ErrAppNotFound
	}

	app, err := gw.GetApp(ctx, appID)
	if err != nil {
		if errors.Is(err, ErrRegistryUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	if app == nil {
		return nil, ErrAppNotFound
	}
	if !IsAppApproved(app) {
		return nil, ErrAppNotApproved
	}
	return app, nil
}
