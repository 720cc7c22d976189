package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"games", CategoryGames},
		{"Game", CategoryGames},
		{" gaming ", CategoryGames},
		{"defi", CategoryEarn},
		{"nft", CategoryCollect},
		{"swap", CategorySwap},
		{"utility", CategoryUtility},
		{"", CategoryOther},
		{"casino", CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCategory(tt.raw), tt.raw)
	}
}

func TestNormalize(t *testing.T) {
	app := &AppMetadata{AppID: "  app-1 ", Category: "NFT"}
	app.Normalize()

	assert.Equal(t, "app-1", app.AppID)
	assert.Equal(t, CategoryCollect, app.Category)
	assert.Equal(t, ApprovalPending, app.ApprovalStatus)
}

func TestParseParamsKeepsOrder(t *testing.T) {
	params, err := ParseParams("path=%2Fchat&z=1&a=2&platform=ios&z=3&empty=&=ignored", "path", "platform")
	require.NoError(t, err)

	assert.Equal(t, Params{
		{Key: "z", Value: "1"},
		{Key: "a", Value: "2"},
		{Key: "z", Value: "3"},
		{Key: "empty", Value: ""},
	}, params)
	assert.Equal(t, "z=1&a=2&z=3&empty=", params.Encode())
}

func TestParseParamsErrors(t *testing.T) {
	_, err := ParseParams("ok=1&bad=%zz")
	assert.Error(t, err)

	params, err := ParseParams("")
	require.NoError(t, err)
	assert.Empty(t, params)
	assert.Equal(t, "", params.Encode())
}

func TestParamsEncodeEscapes(t *testing.T) {
	params := Params{{Key: "q", Value: "a b&c"}, {Key: "redirect", Value: "/x?y=1"}}
	assert.Equal(t, "q=a+b%26c&redirect=%2Fx%3Fy%3D1", params.Encode())
}
