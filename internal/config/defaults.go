package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/PUSHPAK-96/cartwise/internal/cache"
	"github.com/PUSHPAK-96/cartwise/internal/pipeline"
)

// EnvPrefix namespaces environment overrides, e.g. CARTWISE_MINING_MIN_SUPPORT.
const EnvPrefix = "CARTWISE"

// Configuration keys.
const (
	KeyDatabasePath  = "database.path"
	KeyServerAddr    = "server.addr"
	KeyServerTLS     = "server.tls"
	KeyCertDir       = "server.cert_dir"
	KeyCORSOrigins   = "server.cors_origins"
	KeyRateLimit     = "server.rate_limit"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
	KeyMiningPreset  = "mining.preset"
	KeyCacheBackend  = "cache.backend"
	KeyCacheTTL      = "cache.ttl"
	KeyRedisAddr     = "cache.redis_addr"
	KeyRedisPassword = "cache.redis_password"
	KeyRedisDB       = "cache.redis_db"
)

// Defaults.
const (
	DefaultDatabasePath = "~/.local/share/cartwise/cartwise.db"
	DefaultServerAddr   = ":8080"
	DefaultCertDir      = "~/.config/cartwise/certs"
)

// SetDefaults registers defaults and environment lookups on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyServerAddr, DefaultServerAddr)
	v.SetDefault(KeyCertDir, DefaultCertDir)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyMiningPreset, pipeline.DefaultPreset)
	v.SetDefault(KeyCacheBackend, cache.BackendMemory)
	v.SetDefault(KeyCacheTTL, cache.DefaultTTL)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// DatabasePath returns the expanded dataset store location.
func DatabasePath(v *viper.Viper) string {
	return ExpandPath(v.GetString(KeyDatabasePath))
}

// CertDir returns the expanded directory holding the self-signed certificate.
func CertDir(v *viper.Viper) string {
	return ExpandPath(v.GetString(KeyCertDir))
}

// LoadCacheConfig reads the cache.* keys.
func LoadCacheConfig(v *viper.Viper) cache.Config {
	ttl := v.GetDuration(KeyCacheTTL)
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return cache.Config{
		Backend:       v.GetString(KeyCacheBackend),
		TTL:           ttl,
		RedisAddr:     v.GetString(KeyRedisAddr),
		RedisPassword: v.GetString(KeyRedisPassword),
		RedisDB:       v.GetInt(KeyRedisDB),
	}
}

// ServerTimeouts are fixed HTTP server limits.
var ServerTimeouts = struct {
	Read, Write, Idle, Shutdown time.Duration
}{
	Read:     15 * time.Second,
	Write:    60 * time.Second,
	Idle:     120 * time.Second,
	Shutdown: 10 * time.Second,
}
