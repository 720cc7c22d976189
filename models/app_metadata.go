package models

import (
	"strings"
	"time"
)

// Category mini-app category
type Category string

const (
	CategoryGames   Category = "games"
	CategoryEarn    Category = "earn"
	CategorySocial  Category = "social"
	CategoryCollect Category = "collect"
	CategorySwap    Category = "swap"
	CategoryUtility Category = "utility"
	CategoryOther   Category = "other"
)

// categoryAliases legacy category names still found in older registry records
var categoryAliases = map[string]Category{
	"game":   CategoryGames,
	"gaming": CategoryGames,
	"defi":   CategoryEarn,
	"nft":    CategoryCollect,
}

// ParseCategory normalizes a raw category, resolving legacy aliases.
// Unknown values map to CategoryOther.
func ParseCategory(raw string) Category {
	v := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := categoryAliases[v]; ok {
		return alias
	}
	switch c := Category(v); c {
	case CategoryGames, CategoryEarn, CategorySocial, CategoryCollect, CategorySwap, CategoryUtility, CategoryOther:
		return c
	}
	return CategoryOther
}

// ApprovalStatus registry moderation status. The registry owns its transitions.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// AppMetadata registrable mini-app record
type AppMetadata struct {
	AppID          string         `json:"app_id" yaml:"app_id"`                 // Opaque stable id
	Name           string         `json:"name" yaml:"name"`                     // Display name
	Description    string         `json:"description" yaml:"description"`       // Description (Markdown allowed)
	Icon           string         `json:"icon" yaml:"icon"`                     // Icon URL
	DeveloperName  string         `json:"developer_name" yaml:"developer_name"` // Developer display name
	Category       Category       `json:"category" yaml:"category"`
	ApprovalStatus ApprovalStatus `json:"approval_status" yaml:"approval_status"`
	Rating         *float64       `json:"rating" yaml:"rating"` // 0-5, nil until reviews exist

	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Normalize applies category aliases and the default approval status
func (a *AppMetadata) Normalize() {
	a.AppID = strings.TrimSpace(a.AppID)
	a.Category = ParseCategory(string(a.Category))
	if a.ApprovalStatus == "" {
		a.ApprovalStatus = ApprovalPending
	}
}
