package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Configured reports whether a durable backend is set up. When it is not,
// the whole system runs in demo mode and never touches the network.
func (c DBConfig) Configured() bool {
	return c.Host != "" && c.Name != ""
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Token      string `yaml:"token"`
}

type Config struct {
	DB     DBConfig     `yaml:"db"`
	Redis  RedisConfig  `yaml:"redis"`
	MQ     MQConfig     `yaml:"mq"`
	JWT    JWTConfig    `yaml:"jwt"`
	Server ServerConfig `yaml:"server"`
	Notify NotifyConfig `yaml:"notify"`
}

// Load reads config.yaml if present and applies env overrides on top.
// A missing config file is fine: the zero config means demo mode.
func Load() *Config {
	return LoadFile("config.yaml")
}

func LoadFile(path string) *Config {
	// Local development secrets, ignored when absent.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{Port: ":8080"},
	}

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		_ = decoder.Decode(cfg)
	}

	overrideFromEnv(cfg)
	return cfg
}

func overrideFromEnv(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	if url := os.Getenv("NOTIFY_WEBHOOK_URL"); url != "" {
		cfg.Notify.WebhookURL = url
	}
	if token := os.Getenv("NOTIFY_TOKEN"); token != "" {
		cfg.Notify.Token = token
	}
}
