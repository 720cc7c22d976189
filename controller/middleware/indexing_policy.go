package middleware

import (
	"fmt"
	"strings"

	"mini-app-gateway/service/classifier_service"

	"github.com/gin-gonic/gin"
)

const (
	DirectiveNoIndex = "noindex, nofollow"
	DirectiveIndex   = "index, follow"

	HeaderRobotsTag = "X-Robots-Tag"
)

// IndexingRule path prefix and the directive served under it
type IndexingRule struct {
	Prefix    string
	Directive string
}

// IndexingPolicy ordered rules, first match wins, Default otherwise
type IndexingPolicy struct {
	Rules   []IndexingRule
	Default string
}

// DefaultIndexingPolicy the site is not indexed except for the share family
func DefaultIndexingPolicy() *IndexingPolicy {
	return &IndexingPolicy{
		Rules: []IndexingRule{
			{Prefix: "/api/og/share", Directive: DirectiveIndex},
			{Prefix: "/app", Directive: DirectiveIndex},
		},
		Default: DirectiveNoIndex,
	}
}

// Directive for path. Prefixes match at segment boundaries, so /app covers /app/x but not /apple.
func (p *IndexingPolicy) Directive(path string) string {
	for _, rule := range p.Rules {
		if classifier_service.HasPathPrefix(path, rule.Prefix) {
			return rule.Directive
		}
	}
	return p.Default
}

// Middleware sets X-Robots-Tag on every response
func (p *IndexingPolicy) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(HeaderRobotsTag, p.Directive(c.Request.URL.Path))
		c.Next()
	}
}

// RobotsTxt renders robots.txt from the same rule table
func (p *IndexingPolicy) RobotsTxt() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	for _, rule := range p.Rules {
		if strings.HasPrefix(rule.Directive, "index") {
			fmt.Fprintf(&b, "Allow: %s\n", rule.Prefix)
		} else {
			fmt.Fprintf(&b, "Disallow: %s\n", rule.Prefix)
		}
	}
	if strings.HasPrefix(p.Default, "noindex") {
		b.WriteString("Disallow: /\n")
	}
	return b.String()
}
