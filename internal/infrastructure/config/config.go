package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Token schemes.
const (
	SchemeOpaque = "opaque"
	SchemeJWT    = "jwt"
)

type Config struct {
	Port      string `env:"PORT,       default=3001"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	Token TokenConfig
	Authz AuthzConfig

	LoginRateLimit int      `env:"LOGIN_RATE_LIMIT, default=10"`
	AuditWorkers   int      `env:"AUDIT_WORKERS,    default=4"`
	CORSOrigins    []string `env:"CORS_ORIGINS,     default=*"`
}

type StoreConfig struct {
	Backend string `env:"STORE_BACKEND, default=file"`
	File    string `env:"STORE_FILE,    default=data/db.json"`
	Watch   bool   `env:"STORE_WATCH,   default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=rbac"`
}

// RedisConfig leaves Addr empty by default; revocations then stay in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type TokenConfig struct {
	Scheme        string        `env:"TOKEN_SCHEME,         default=opaque"`
	Secret        string        `env:"TOKEN_SECRET"`
	TTL           time.Duration `env:"TOKEN_TTL,            default=24h"`
	StrictBinding bool          `env:"TOKEN_STRICT_BINDING, default=false"`
}

type AuthzConfig struct {
	ManagementRoles []string `env:"MANAGEMENT_ROLES, default=Manager,Admin"`
	SuperAdminRole  string   `env:"SUPER_ADMIN_ROLE, default=Super Admin"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Token.Scheme {
	case SchemeOpaque:
	case SchemeJWT:
		if c.Token.Secret == "" {
			return errors.New("config: TOKEN_SECRET is required for the jwt token scheme")
		}
	default:
		return fmt.Errorf("config: unknown TOKEN_SCHEME %q", c.Token.Scheme)
	}
	if len(c.Authz.ManagementRoles) == 0 {
		return errors.New("config: MANAGEMENT_ROLES must name at least one role")
	}
	for i, r := range c.Authz.ManagementRoles {
		c.Authz.ManagementRoles[i] = strings.TrimSpace(r)
	}
	return nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
