package deeplink_service

import "strings"

// Platform class of the requesting environment
type Platform string

const (
	PlatformIOS         Platform = "ios"
	PlatformAndroid     Platform = "android"
	PlatformDesktop     Platform = "desktop"
	PlatformOtherMobile Platform = "other-mobile"
)

var otherMobileMarkers = []string{
	"mobile",
	"windows phone",
	"blackberry",
	"bb10",
	"opera mini",
	"kaios",
	"silk/",
}

// DetectPlatform classifies a User-Agent. Unknown or empty agents are desktop.
func DetectPlatform(userAgent string) Platform {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return PlatformIOS
	case strings.Contains(ua, "android"):
		return PlatformAndroid
	}
	for _, marker := range otherMobileMarkers {
		if strings.Contains(ua, marker) {
			return PlatformOtherMobile
		}
	}
	return PlatformDesktop
}

// ParsePlatform accepts an explicit platform override, falling back to detection
func ParsePlatform(raw, userAgent string) Platform {
	switch p := Platform(strings.ToLower(strings.TrimSpace(raw))); p {
	case PlatformIOS, PlatformAndroid, PlatformDesktop, PlatformOtherMobile:
		return p
	}
	return DetectPlatform(userAgent)
}

// Supported reports whether a navigation race may be started on p
func (p Platform) Supported() bool {
	return p == PlatformIOS || p == PlatformAndroid || p == PlatformOtherMobile
}
