package conf

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config application configuration structure
type Config struct {
	// HTTP server configuration (gateway)
	Server ServerConfig

	// Registry client configuration (gateway -> registry)
	Registry RegistryConfig

	// Deep link configuration
	DeepLink DeepLinkConfig

	// Share page / social preview configuration
	Share ShareConfig

	// Crawler classification configuration
	Crawler CrawlerConfig

	// Preview image rate limit configuration
	RateLimit RateLimitConfig

	// Registry service database configuration
	Database DatabaseConfig

	// Registry update feed configuration
	Feed FeedConfig
}

// ServerConfig gateway HTTP server configuration
type ServerConfig struct {
	Port           string // Gateway service port
	BaseUrl        string // Public base URL, e.g. "https://apps.example.com"
	SwaggerBaseUrl string // Swagger API host
	LogLevel       string // logrus level
}

// RegistryConfig registry client configuration
type RegistryConfig struct {
	BaseUrl          string // Registry service URL, e.g. "http://localhost:7291"
	TimeoutMs        int    // Per-request timeout
	BreakerThreshold int    // Consecutive failures before the breaker trips
	UserAgent        string
}

// DeepLinkConfig deep link construction and race configuration
type DeepLinkConfig struct {
	Scheme                  string   // Custom URI scheme of the host app, e.g. "metawallet"
	HostDomain              string   // Universal/app link domain, e.g. "apps.example.com"
	VisibilityTimeoutMs     int      // Race timeout
	IosStoreUrl             string   // App Store page of the host app
	AndroidStoreUrl         string   // Play Store page of the host app
	IosAppIds               []string // "{teamId}.{bundleId}" entries for apple-app-site-association
	AndroidPackage          string   // Android package name for assetlinks.json
	AndroidCertFingerprints []string // SHA-256 signing cert fingerprints for assetlinks.json
}

// ShareConfig share page configuration
type ShareConfig struct {
	ProductLine         string // Product line shown in titles, e.g. "MetaWallet"
	NotFoundTitle       string
	NotFoundDescription string
}

// CrawlerConfig crawler classification configuration
type CrawlerConfig struct {
	ExtraAgents []string // Additional crawler user-agent substrings
}

// RateLimitConfig preview image limiter configuration
type RateLimitConfig struct {
	PreviewRps   int
	PreviewBurst int
}

// DatabaseConfig registry database configuration
type DatabaseConfig struct {
	IndexerType string // Registry database type: pebble
	DataDir     string // PebbleDB data directory
}

// FeedConfig registry update feed configuration
type FeedConfig struct {
	Port       string // Registry service port
	ZmqEnabled bool   // Enable ZMQ update feed
	ZmqAddress string // ZMQ publisher address
	ZmqTopic   string // Topic carrying app updates
}

// Cfg global configuration instance
var Cfg *Config

// InitConfig initialize configuration
func InitConfig() error {
	// allow .env for local runs, MINIAPP_* variables override the yaml
	_ = godotenv.Load()

	viper.SetConfigFile(GetYaml())
	viper.SetEnvPrefix("MINIAPP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("Fatal error config file: %s", err)
	}

	Cfg = load(viper.GetViper())
	return nil
}

// Default configuration with every default applied, no config file
func Default() *Config {
	return load(viper.New())
}

// load builds the configuration from a viper instance and applies defaults
func load(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("server.port"),
			BaseUrl:        v.GetString("server.base_url"),
			SwaggerBaseUrl: v.GetString("server.swagger_base_url"),
			LogLevel:       v.GetString("server.log_level"),
		},

		Registry: RegistryConfig{
			BaseUrl:          v.GetString("registry.base_url"),
			TimeoutMs:        v.GetInt("registry.timeout_ms"),
			BreakerThreshold: v.GetInt("registry.breaker_threshold"),
			UserAgent:        v.GetString("registry.user_agent"),
		},

		DeepLink: DeepLinkConfig{
			Scheme:                  v.GetString("deeplink.scheme"),
			HostDomain:              v.GetString("deeplink.host_domain"),
			VisibilityTimeoutMs:     v.GetInt("deeplink.visibility_timeout_ms"),
			IosStoreUrl:             v.GetString("deeplink.ios_store_url"),
			AndroidStoreUrl:         v.GetString("deeplink.android_store_url"),
			IosAppIds:               v.GetStringSlice("deeplink.ios_app_ids"),
			AndroidPackage:          v.GetString("deeplink.android_package"),
			AndroidCertFingerprints: v.GetStringSlice("deeplink.android_cert_fingerprints"),
		},

		Share: ShareConfig{
			ProductLine:         v.GetString("share.product_line"),
			NotFoundTitle:       v.GetString("share.not_found_title"),
			NotFoundDescription: v.GetString("share.not_found_description"),
		},

		Crawler: CrawlerConfig{
			ExtraAgents: v.GetStringSlice("crawler.extra_agents"),
		},

		RateLimit: RateLimitConfig{
			PreviewRps:   v.GetInt("rate_limit.preview_rps"),
			PreviewBurst: v.GetInt("rate_limit.preview_burst"),
		},

		Database: DatabaseConfig{
			IndexerType: v.GetString("database.indexer_type"),
			DataDir:     v.GetString("database.data_dir"),
		},

		Feed: FeedConfig{
			Port:       v.GetString("feed.port"),
			ZmqEnabled: v.GetBool("feed.zmq_enabled"),
			ZmqAddress: v.GetString("feed.zmq_address"),
			ZmqTopic:   v.GetString("feed.zmq_topic"),
		},
	}

	// Set default values
	if cfg.Server.Port == "" {
		cfg.Server.Port = "7290"
	}
	if cfg.Server.BaseUrl == "" {
		cfg.Server.BaseUrl = "http://localhost:" + cfg.Server.Port
	}
	cfg.Server.BaseUrl = strings.TrimRight(cfg.Server.BaseUrl, "/")
	if cfg.Server.SwaggerBaseUrl == "" {
		cfg.Server.SwaggerBaseUrl = "localhost:" + cfg.Server.Port
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Feed.Port == "" {
		cfg.Feed.Port = "7291"
	}
	if cfg.Registry.BaseUrl == "" {
		cfg.Registry.BaseUrl = "http://localhost:" + cfg.Feed.Port
	}
	if cfg.Registry.TimeoutMs == 0 {
		cfg.Registry.TimeoutMs = 3000
	}
	if cfg.Registry.BreakerThreshold == 0 {
		cfg.Registry.BreakerThreshold = 5
	}
	if cfg.Registry.UserAgent == "" {
		cfg.Registry.UserAgent = "mini-app-gateway/1.0"
	}
	if cfg.DeepLink.Scheme == "" {
		cfg.DeepLink.Scheme = "metawallet"
	}
	if cfg.DeepLink.HostDomain == "" {
		cfg.DeepLink.HostDomain = strings.TrimPrefix(strings.TrimPrefix(cfg.Server.BaseUrl, "https://"), "http://")
	}
	if cfg.DeepLink.VisibilityTimeoutMs == 0 {
		cfg.DeepLink.VisibilityTimeoutMs = 600
	}
	if cfg.Share.ProductLine == "" {
		cfg.Share.ProductLine = "MetaWallet"
	}
	if cfg.Share.NotFoundTitle == "" {
		cfg.Share.NotFoundTitle = "Mini-App Not Found"
	}
	if cfg.Share.NotFoundDescription == "" {
		cfg.Share.NotFoundDescription = "This mini-app does not exist or is no longer available."
	}
	if cfg.RateLimit.PreviewRps == 0 {
		cfg.RateLimit.PreviewRps = 10
	}
	if cfg.RateLimit.PreviewBurst == 0 {
		cfg.RateLimit.PreviewBurst = 20
	}
	if cfg.Database.IndexerType == "" {
		cfg.Database.IndexerType = "pebble"
	}
	if cfg.Database.DataDir == "" {
		cfg.Database.DataDir = "./registry_data"
	}
	if cfg.Feed.ZmqTopic == "" {
		cfg.Feed.ZmqTopic = "app"
	}

	return cfg
}
