package config

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tools     ToolsConfig     `yaml:"tools"`
	Inference InferenceConfig `yaml:"inference"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`

	trustedNets []net.IPNet
}

type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	TLSCert         string        `yaml:"tls_cert"`
	TLSKey          string        `yaml:"tls_key"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	MaxBodySize     int64         `yaml:"max_body_size"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	TrustedProxies  []string      `yaml:"trusted_proxies"`
}

type DatabaseConfig struct {
	Path                    string        `yaml:"path"`
	MaxReadConns            int           `yaml:"max_read_conns"`
	RequestLogRetentionDays int           `yaml:"request_log_retention_days"`
	RetentionPeriod         time.Duration `yaml:"retention_period"`
}

// ToolsConfig bounds tool inputs. MaxTokens caps the token count per side
// of a comparison; the diff table is quadratic in it.
type ToolsConfig struct {
	MaxTextBytes int      `yaml:"max_text_bytes"`
	MaxTokens    int      `yaml:"max_tokens"`
	Disabled     []string `yaml:"disabled"`
}

// InferenceConfig points the AI-backed tools at an external
// OpenAI-compatible completion endpoint. An empty URL disables them.
type InferenceConfig struct {
	URL     string        `yaml:"url"`
	Model   string        `yaml:"model"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	APIKeys []APIKeyConfig `yaml:"api_keys"`
}

type APIKeyConfig struct {
	Name string `yaml:"name"`
	Hash string `yaml:"hash"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:          "127.0.0.1:8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			MaxBodySize:     4 << 20, // 4MB, images for captioning included
			RateLimitPerSec: 30,
			RateLimitBurst:  60,
		},
		Database: DatabaseConfig{
			Path:                    "handybox.db",
			MaxReadConns:            4,
			RequestLogRetentionDays: 7,
			RetentionPeriod:         1 * time.Hour,
		},
		Tools: ToolsConfig{
			MaxTextBytes: 1 << 20, // 1MB per text input
			MaxTokens:    20000,   // ~quadratic memory ceiling for the diff table
		},
		Inference: InferenceConfig{
			Timeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	nets, err := parseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("parse trusted_proxies: %w", err)
	}
	cfg.trustedNets = nets

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateInference(); err != nil {
		return err
	}
	if err := validateAPIKeys(c.Auth.APIKeys); err != nil {
		return err
	}
	return validateLogLevel(c.Logging.Level)
}

func (c *Config) validateServer() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Server.MaxBodySize <= 0 {
		return fmt.Errorf("server.max_body_size must be positive")
	}
	if c.Server.RateLimitPerSec <= 0 {
		return fmt.Errorf("server.rate_limit_per_sec must be positive")
	}
	if c.Server.RateLimitBurst <= 0 {
		return fmt.Errorf("server.rate_limit_burst must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.MaxReadConns <= 0 {
		return fmt.Errorf("database.max_read_conns must be positive")
	}
	if c.Database.RequestLogRetentionDays <= 0 {
		return fmt.Errorf("database.request_log_retention_days must be positive")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.MaxTextBytes <= 0 {
		return fmt.Errorf("tools.max_text_bytes must be positive")
	}
	if c.Tools.MaxTokens <= 0 {
		return fmt.Errorf("tools.max_tokens must be positive")
	}
	return nil
}

func (c *Config) validateInference() error {
	if c.Inference.URL == "" {
		return nil
	}
	u, err := url.Parse(c.Inference.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("inference.url must be an absolute URL (e.g. http://localhost:11434)")
	}
	if c.Inference.Model == "" {
		return fmt.Errorf("inference.model is required when inference.url is set")
	}
	if c.Inference.Timeout <= 0 {
		return fmt.Errorf("inference.timeout must be positive")
	}
	return nil
}

func validateAPIKeys(keys []APIKeyConfig) error {
	for i := range keys {
		if keys[i].Name == "" {
			return fmt.Errorf("auth.api_keys[%d].name is required", i)
		}
		if keys[i].Hash == "" {
			return fmt.Errorf("auth.api_keys[%d].hash is required", i)
		}
	}
	return nil
}

func validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
}

// ToolEnabled reports whether a tool name is absent from tools.disabled.
func (c *Config) ToolEnabled(name string) bool {
	for _, d := range c.Tools.Disabled {
		if d == name {
			return false
		}
	}
	return true
}

func HashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// LookupAPIKey checks if the given key matches any configured API key
// and returns the key config if found.
func (c *Config) LookupAPIKey(key string) (*APIKeyConfig, bool) {
	hash := HashAPIKey(key)
	for i := range c.Auth.APIKeys {
		if subtle.ConstantTimeCompare([]byte(c.Auth.APIKeys[i].Hash), []byte(hash)) == 1 {
			return &c.Auth.APIKeys[i], true
		}
	}
	return nil, false
}

func (c *Config) IsTrustedProxy(ip net.IP) bool {
	for i := range c.trustedNets {
		if c.trustedNets[i].Contains(ip) {
			return true
		}
	}
	return false
}

func (c *Config) TrustedNets() []net.IPNet {
	return c.trustedNets
}

func parseTrustedProxies(proxies []string) ([]net.IPNet, error) {
	var nets []net.IPNet
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("invalid IP: %s", p)
			}
			if ip.To4() != nil {
				p += "/32"
			} else {
				p += "/128"
			}
		}
		_, ipNet, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %s", p)
		}
		nets = append(nets, *ipNet)
	}
	return nets, nil
}
