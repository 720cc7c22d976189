package classifier_service

import (
	"net/http"
	"strings"

	model "mini-app-gateway/models"
)

// CrawlerAgent a user-agent substring and the crawler family it identifies
type CrawlerAgent struct {
	Substring string
	Family    string
}

// DefaultCrawlerAgents social-preview fetchers and link unfurlers, matched in order
var DefaultCrawlerAgents = []CrawlerAgent{
	{"facebookexternalhit", "facebook"},
	{"facebookcatalog", "facebook"},
	{"facebot", "facebook"},
	{"twitterbot", "twitter"},
	{"linkedinbot", "linkedin"},
	{"slackbot", "slack"},
	{"slack-imgproxy", "slack"},
	{"discordbot", "discord"},
	{"telegrambot", "telegram"},
	{"whatsapp", "whatsapp"},
	{"pinterest", "pinterest"},
	{"redditbot", "reddit"},
	{"skypeuripreview", "skype"},
	{"vkshare", "vk"},
	{"mastodon", "mastodon"},
	{"bluesky", "bluesky"},
	{"embedly", "embedly"},
	{"iframely", "iframely"},
	{"googlebot", "google"},
	{"google-inspectiontool", "google"},
	{"bingbot", "bing"},
	{"applebot", "apple"},
	{"duckduckbot", "duckduckgo"},
	{"yandexbot", "yandex"},
}

// ShareRoutePrefixes path families whose verdict is consulted
var ShareRoutePrefixes = []string{
	"/api/og/share",
	"/app",
}

// ClassifierService decides whether a request comes from a link-preview crawler.
// It holds only immutable data and is safe for concurrent use.
type ClassifierService struct {
	agents []CrawlerAgent
}

// NewClassifierService builds a classifier from the default agents plus extra
// substrings from configuration. Extra entries use the substring as family.
func NewClassifierService(extraAgents []string) *ClassifierService {
	agents := make([]CrawlerAgent, 0, len(DefaultCrawlerAgents)+len(extraAgents))
	agents = append(agents, DefaultCrawlerAgents...)
	for _, extra := range extraAgents {
		extra = strings.ToLower(strings.TrimSpace(extra))
		if extra == "" {
			continue
		}
		agents = append(agents, CrawlerAgent{Substring: extra, Family: extra})
	}
	return &ClassifierService{agents: agents}
}

// HasPathPrefix reports whether path equals prefix or continues it at a segment boundary
func HasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/' || strings.HasSuffix(prefix, "/")
}

// InScope reports whether path belongs to the share route family
func (s *ClassifierService) InScope(path string) bool {
	for _, prefix := range ShareRoutePrefixes {
		if HasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// MatchUserAgent returns the crawler family for ua. Empty ua is never a crawler.
func (s *ClassifierService) MatchUserAgent(ua string) (string, bool) {
	ua = strings.ToLower(strings.TrimSpace(ua))
	if ua == "" {
		return "", false
	}
	for _, agent := range s.agents {
		if strings.Contains(ua, agent.Substring) {
			return agent.Family, true
		}
	}
	return "", false
}

// Classify produces the verdict for one request. Out-of-scope paths are
// never reported as crawler traffic.
func (s *ClassifierService) Classify(path string, header http.Header) model.ClassificationVerdict {
	if !s.InScope(path) {
		return model.ClassificationVerdict{}
	}

	verdict := model.ClassificationVerdict{InScope: true}
	if family, ok := s.MatchUserAgent(header.Get("User-Agent")); ok {
		verdict.IsCrawler = true
		verdict.CrawlerFamily = family
	}
	return verdict
}
