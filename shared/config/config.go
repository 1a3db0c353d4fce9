package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port            int      `yaml:"port"`
	JwtTTLHours     int      `yaml:"jwt_ttl_hours"`
	MessagesPerPage int      `yaml:"messages_per_page"` // default page size
	MaxPageSize     int      `yaml:"max_page_size"`     // hard cap on requested page size
	MarkReadOnView  *bool    `yaml:"mark_read_on_view"` // fetching a feed page records receipts for the viewer; on unless explicitly disabled
	LogLevel        string   `yaml:"log_level"`
	LogJSON         bool     `yaml:"log_json"`
	SecureCookies   bool     `yaml:"secure_cookies"`
	CorsOrigins     []string `yaml:"cors_origins"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtTTLHours) * time.Hour
}

func (c *Config) MarkReadOnView() bool {
	return c.Public.MarkReadOnView == nil || *c.Public.MarkReadOnView
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.MessagesPerPage <= 0 {
		c.Public.MessagesPerPage = 20
	}
	if c.Public.MaxPageSize <= 0 {
		c.Public.MaxPageSize = 100
	}
	if c.Public.LogLevel == "" {
		c.Public.LogLevel = "info"
	}
	if c.Public.Port == 0 {
		c.Public.Port = 8080
	}
	if c.Public.JwtTTLHours <= 0 {
		c.Public.JwtTTLHours = 24 * 7
	}
	if c.Public.MarkReadOnView == nil {
		markRead := true
		c.Public.MarkReadOnView = &markRead
	}
}
