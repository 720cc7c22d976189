package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// openPathPattern paths claimed for universal/app links
const openPathPattern = "/open/*"

// WellKnownOptions association file inputs
type WellKnownOptions struct {
	IOSAppIDs               []string // TEAMID.bundle.id
	AndroidPackage          string
	AndroidCertFingerprints []string
}

// WellKnownHandler apple-app-site-association and assetlinks.json
type WellKnownHandler struct {
	opts WellKnownOptions
}

// NewWellKnownHandler 创建关联文件处理器实例
func NewWellKnownHandler(opts WellKnownOptions) *WellKnownHandler {
	return &WellKnownHandler{opts: opts}
}

type aasaComponent struct {
	Path string `json:"/"`
}

type aasaDetail struct {
	AppIDs     []string        `json:"appIDs"`
	Components []aasaComponent `json:"components"`
	Paths      []string        `json:"paths"`
}

type aasaFile struct {
	Applinks struct {
		Apps    []string     `json:"apps"`
		Details []aasaDetail `json:"details"`
	} `json:"applinks"`
}

type assetLinkTarget struct {
	Namespace              string   `json:"namespace"`
	PackageName            string   `json:"package_name"`
	SHA256CertFingerprints []string `json:"sha256_cert_fingerprints"`
}

type assetLink struct {
	Relation []string        `json:"relation"`
	Target   assetLinkTarget `json:"target"`
}

// AppleAppSiteAssociation serves /.well-known/apple-app-site-association
func (h *WellKnownHandler) AppleAppSiteAssociation(c *gin.Context) {
	var file aasaFile
	file.Applinks.Apps = []string{}
	file.Applinks.Details = []aasaDetail{}
	if len(h.opts.IOSAppIDs) > 0 {
		file.Applinks.Details = append(file.Applinks.Details, aasaDetail{
			AppIDs:     h.opts.IOSAppIDs,
			Components: []aasaComponent{{Path: openPathPattern}},
			Paths:      []string{openPathPattern},
		})
	}
	c.JSON(http.StatusOK, file)
}

// AssetLinks serves /.well-known/assetlinks.json
func (h *WellKnownHandler) AssetLinks(c *gin.Context) {
	links := []assetLink{}
	if h.opts.AndroidPackage != "" {
		fingerprints := h.opts.AndroidCertFingerprints
		if fingerprints == nil {
			fingerprints = []string{}
		}
		links = append(links, assetLink{
			Relation: []string{"delegate_permission/common.handle_all_urls"},
			Target: assetLinkTarget{
				Namespace:              "android_app",
				PackageName:            h.opts.AndroidPackage,
				SHA256CertFingerprints: fingerprints,
			},
		})
	}
	c.JSON(http.StatusOK, links)
}
