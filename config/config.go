package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultUploadDirs are written into a freshly created config file.
var DefaultUploadDirs = []string{"/data/main", "/data/dev", "/data/web"}

type Config struct {
	Server     ServerConfig   `mapstructure:"server"`
	App        AppConfig      `mapstructure:"app"`
	Database   DatabaseConfig `mapstructure:"db"`
	Cache      CacheConfig    `mapstructure:"cache"`
	Security   SecurityConfig `mapstructure:"security"`
	Storage    StorageConfig  `mapstructure:"storage"`
	UploadDirs []string       `mapstructure:"upload_dirs"`
}

type ServerConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

type AppConfig struct {
	Framework        string `mapstructure:"framework"` // vorp | esx
	Table            string `mapstructure:"table"`
	Order            string `mapstructure:"order"` // asc | desc
	Lang             string `mapstructure:"lang"`
	AdminPassword    string `mapstructure:"admin_password"`
	EnableAddItem    bool   `mapstructure:"enable_add_item"`
	EnableCharacters bool   `mapstructure:"enable_characters"`
	CharactersTable  string `mapstructure:"characters_table"`
}

type DatabaseConfig struct {
	Mode       string        `mapstructure:"mode"` // mysql | sqlite
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	Database   string        `mapstructure:"database"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	MaxOpen    int           `mapstructure:"max_open"`
	MaxIdle    int           `mapstructure:"max_idle"`
	MaxLife    time.Duration `mapstructure:"max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

type SecurityConfig struct {
	Secret     string        `mapstructure:"secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	// SessionIdle logs a user out after this long without a request.
	SessionIdle    time.Duration `mapstructure:"session_idle"`
	SecureCookie   bool          `mapstructure:"secure_cookie"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	// AllowedIPs lists client IPs or CIDR ranges allowed to reach the tool.
	// Empty allows everyone.
	AllowedIPs []string `mapstructure:"allowed_ips"`
}

type StorageConfig struct {
	UsersPath       string `mapstructure:"users_path"`
	SafeCoordsPath  string `mapstructure:"safecoords_path"`
	AuditLog        string `mapstructure:"audit_log"`
	AuditMaxSizeMB  int    `mapstructure:"audit_max_size_mb"`
	AuditMaxBackups int    `mapstructure:"audit_max_backups"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string][]string{
	"server.host":               {"IP"},
	"server.port":               {"PORT"},
	"server.debug":              {"DEBUG"},
	"app.framework":             {"FRAMEWORK"},
	"app.table":                 {"DB_TABLE"},
	"app.order":                 {"ORDER"},
	"app.lang":                  {"UI_LANG", "LANG"},
	"app.admin_password":        {"ADMIN_PASSWORD"},
	"app.enable_add_item":       {"ENABLE_ADD_ITEM"},
	"app.enable_characters":     {"ENABLE_CHARACTERS"},
	"app.characters_table":      {"CHARACTERS_TABLE"},
	"db.mode":                   {"DB_MODE"},
	"db.sqlite_path":            {"SQLITE_PATH"},
	"cache.redis_addr":          {"REDIS_ADDR"},
	"cache.redis_password":      {"REDIS_PASSWORD"},
	"cache.redis_db":            {"REDIS_DB"},
	"security.secret":           {"SECRET"},
	"security.session_ttl":      {"SESSION_TTL"},
	"security.session_idle":     {"SESSION_IDLE"},
	"security.secure_cookie":    {"SECURE_COOKIE"},
	"security.rate_limit_rps":   {"RATE_LIMIT_RPS"},
	"security.rate_limit_burst": {"RATE_LIMIT_BURST"},
	"security.allowed_ips":      {"ALLOWED_IPS"},
	"storage.users_path":        {"USERS_PATH"},
	"storage.safecoords_path":   {"SAFECOORDS_PATH"},
	"storage.audit_log":         {"AUDIT_LOG"},
	"upload_dirs":               {"UPLOAD_DIRS"},
}

// Load reads config from the given JSON file path, creating the file from
// environment defaults first if it does not exist yet.
func Load(path string) (*Config, error) {
	if err := ensureFile(path); err != nil {
		return nil, fmt.Errorf("config: bootstrap %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.debug", false)
	v.SetDefault("app.framework", "vorp")
	v.SetDefault("app.table", "items")
	v.SetDefault("app.order", "asc")
	v.SetDefault("app.lang", "cs")
	v.SetDefault("app.admin_password", "admin")
	v.SetDefault("app.enable_add_item", false)
	v.SetDefault("app.enable_characters", false)
	v.SetDefault("app.characters_table", "characters")
	v.SetDefault("db.mode", "mysql")
	v.SetDefault("db.sqlite_path", "./data/items.db")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 2)
	v.SetDefault("db.max_life", "1h")
	v.SetDefault("cache.local_gc_interval", "1m")
	v.SetDefault("security.secret", "default-dev-key")
	v.SetDefault("security.session_ttl", "12h")
	v.SetDefault("security.session_idle", "2h")
	v.SetDefault("security.rate_limit_rps", 20)
	v.SetDefault("security.rate_limit_burst", 40)
	v.SetDefault("storage.users_path", filepath.Join("config", "users.json"))
	v.SetDefault("storage.safecoords_path", filepath.Join("config", "safecoords.json"))
	v.SetDefault("storage.audit_log", "users.log")
	v.SetDefault("storage.audit_max_size_mb", 10)
	v.SetDefault("storage.audit_max_backups", 5)
	v.SetDefault("upload_dirs", DefaultUploadDirs)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.App.Framework = strings.ToLower(strings.TrimSpace(c.App.Framework))
	switch c.App.Framework {
	case "vorp", "esx":
	default:
		return fmt.Errorf("config: unknown framework %q (want vorp or esx)", c.App.Framework)
	}
	c.App.Order = strings.ToLower(strings.TrimSpace(c.App.Order))
	switch c.App.Order {
	case "asc", "desc":
	default:
		return fmt.Errorf("config: unknown order %q (want asc or desc)", c.App.Order)
	}
	c.Database.Mode = strings.ToLower(c.Database.Mode)
	if len(c.UploadDirs) == 0 {
		return errors.New("config: upload_dirs must list at least one directory")
	}
	return nil
}

// ensureFile seeds the JSON config file with the database connection taken
// from the environment and the default upload directories.
func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	env := viper.New()
	env.SetDefault("DB_HOST", "localhost")
	env.SetDefault("DB_PORT", 3306)
	env.SetDefault("DB_NAME", "test")
	env.SetDefault("DB_USER", "root")
	env.SetDefault("DB_PASSWORD", "")
	env.AutomaticEnv()

	seed := viper.New()
	seed.SetConfigType("json")
	seed.Set("db", map[string]interface{}{
		"host":     env.GetString("DB_HOST"),
		"port":     env.GetInt("DB_PORT"),
		"database": env.GetString("DB_NAME"),
		"user":     env.GetString("DB_USER"),
		"password": env.GetString("DB_PASSWORD"),
	})
	seed.Set("upload_dirs", DefaultUploadDirs)
	return seed.WriteConfigAs(path)
}
