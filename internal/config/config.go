package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Assistant AssistantConfig `mapstructure:"assistant"`
	Session   SessionConfig   `mapstructure:"session"`
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

// AssistantConfig 远端助手服务
type AssistantConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	ChatPath   string        `mapstructure:"chat_path"`
	HealthPath string        `mapstructure:"health_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	UserID string `mapstructure:"user_id"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

var cfg *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("assistant.base_url", "http://localhost:5000")
	v.SetDefault("assistant.chat_path", "/chat")
	v.SetDefault("assistant.health_path", "/health")
	v.SetDefault("assistant.timeout", 30*time.Second)

	v.SetDefault("session.user_id", "web_user")

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.max_header_bytes", 1<<20)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept"})
	v.SetDefault("cors.exposed_headers", []string{})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// Load 读取配置：.env -> YAML 文件 -> COMMERCIA_ 前缀环境变量。
// 配置文件不存在时使用默认值
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("COMMERCIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", configPath, err)
			}
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg = c
	return c, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Assistant.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("assistant.base_url must be an absolute http(s) URL, got %q", c.Assistant.BaseURL)
	}
	if c.Assistant.Timeout <= 0 {
		return fmt.Errorf("assistant.timeout must be positive, got %s", c.Assistant.Timeout)
	}
	if strings.TrimSpace(c.Session.UserID) == "" {
		return errors.New("session.user_id must not be empty")
	}
	return nil
}

// ChatURL 完整的聊天端点地址
func (a AssistantConfig) ChatURL() string {
	return strings.TrimRight(a.BaseURL, "/") + a.ChatPath
}

func (a AssistantConfig) HealthURL() string {
	return strings.TrimRight(a.BaseURL, "/") + a.HealthPath
}

func Get() *Config {
	return cfg
}
