// config/config.go
package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Log           LogConfiguration
	Redis         RedisConfiguration
	Cache         CacheConfiguration
	Auth          AuthConfiguration
	Neo4j         DatabaseConfiguration
	Elasticsearch ElasticsearchConfiguration
	RateLimit     RateLimitConfiguration
	CORS          CORSConfiguration
	Metrics       MetricsConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port            string
	Mode            string
	ShutdownTimeout time.Duration
}

// LogConfiguration controls the zap logger
type LogConfiguration struct {
	Level string
	Dir   string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	PoolTimeout  time.Duration
}

// CacheConfiguration controls the shared cache client.
// Codec is "json" or "msgpack". EncryptionKey, when set, must be 32 bytes.
type CacheConfiguration struct {
	KeyPrefix     string
	Codec         string
	DefaultTTL    time.Duration
	Timeout       time.Duration
	EncryptionKey string
}

// AuthConfiguration stores session token settings
// AdminAccounts are registered with the admin role.
type AuthConfiguration struct {
	TokenSecret   string
	TokenIssuer   string
	SessionTTL    time.Duration
	AdminAccounts []string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI      string
	Username string
	Password string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL   string
	Index string
}

// RateLimitConfiguration stores the per-client request budget
type RateLimitConfiguration struct {
	Enabled  bool
	Requests int
	Per      time.Duration
}

// CORSConfiguration stores allowed origins
type CORSConfiguration struct {
	Enabled      bool
	AllowOrigins []string
}

// MetricsConfiguration toggles the /metrics endpoint
type MetricsConfiguration struct {
	Enabled bool
	Path    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdownTimeout", "5s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dialTimeout", "5s")
	v.SetDefault("redis.readTimeout", "3s")
	v.SetDefault("redis.writeTimeout", "3s")
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.poolTimeout", "4s")

	v.SetDefault("cache.keyPrefix", "keystone:")
	v.SetDefault("cache.codec", "json")
	v.SetDefault("cache.defaultTTL", "10m")
	v.SetDefault("cache.timeout", "2s")
	v.SetDefault("cache.encryptionKey", "")

	v.SetDefault("auth.tokenSecret", "")
	v.SetDefault("auth.tokenIssuer", "keystone")
	v.SetDefault("auth.sessionTTL", "24h")
	v.SetDefault("auth.adminAccounts", []string{})

	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")

	v.SetDefault("elasticsearch.url", "http://localhost:9200")
	v.SetDefault("elasticsearch.index", "authz-audit")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests", 100)
	v.SetDefault("ratelimit.per", "1m")

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowOrigins", []string{})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load merges defaults, config.yaml from the given paths (config/ and . when
// none are given) and KEYSTONE_* environment variables, later sources winning.
func Load(paths ...string) (*Configuration, error) {
	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p) // path to look for the config file in
	}
	v.SetConfigName("config") // name of the config file (without extension)
	v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	v.SetEnvPrefix("keystone")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match

	setDefaults(v)

	// Attempt to read the config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Configuration) Validate() error {
	switch c.Cache.Codec {
	case "json", "msgpack":
	default:
		return errors.New("cache.codec must be json or msgpack")
	}
	if c.Cache.EncryptionKey != "" && len(c.Cache.EncryptionKey) != 32 {
		return errors.New("invalid cache.encryptionKey length: must be 32 bytes")
	}
	if c.Cache.Timeout < 0 || c.Cache.DefaultTTL < 0 {
		return errors.New("cache timeouts must not be negative")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.sessionTTL must be positive")
	}
	return nil
}
