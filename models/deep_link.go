package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Param single query parameter
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Params ordered key/value list. Order is preserved end to end so constructed URIs are deterministic.
type Params []Param

// ParseParams parses a raw query string keeping the order of appearance.
// Keys listed in skip are dropped.
func ParseParams(rawQuery string, skip ...string) (Params, error) {
	var params Params
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("invalid query key %q: %w", k, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("invalid query value for %q: %w", key, err)
		}
		if key == "" || contains(skip, key) {
			continue
		}
		params = append(params, Param{Key: key, Value: value})
	}
	return params, nil
}

// Encode renders the params as a query string in their original order
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// DeepLinkRequest one open-in-app attempt
type DeepLinkRequest struct {
	AttemptID       string    `json:"attempt_id"`
	AppID           string    `json:"app_id"`
	Path            string    `json:"path"`
	Params          Params    `json:"params"`
	OriginTimestamp time.Time `json:"origin_timestamp"`
}

// NavigationOutcome result of one resolution attempt
type NavigationOutcome string

const (
	OutcomeOpenedInApp         NavigationOutcome = "opened-in-app"
	OutcomeFellBackToStore     NavigationOutcome = "fell-back-to-store"
	OutcomeFellBackToWeb       NavigationOutcome = "fell-back-to-web"
	OutcomeUnsupportedPlatform NavigationOutcome = "unsupported-platform"
)

// ClassificationVerdict crawler verdict for a single request
type ClassificationVerdict struct {
	InScope       bool   `json:"in_scope"` // Path belongs to the share route family
	IsCrawler     bool   `json:"is_crawler"`
	CrawlerFamily string `json:"crawler_family,omitempty"`
}
