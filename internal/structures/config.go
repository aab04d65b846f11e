package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath      string        `yaml:"filePath" validate:"required|unixPath"`
	DebounceDelay time.Duration `yaml:"debounceDelay" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CloudflareConfig struct {
	Account   string `yaml:"account"`
	Namespace string `yaml:"namespace"`
	Token     string `yaml:"token"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RelayConfig struct {
	Backend    string           `yaml:"backend" validate:"required|in:cloudflare,redis,memory"`
	TTL        time.Duration    `yaml:"ttl"`
	CacheSize  int              `yaml:"cacheSize"`
	Cloudflare CloudflareConfig `yaml:"cloudflare"`
	Redis      RedisConfig      `yaml:"redis"`
}

type DispatchConfig struct {
	BaseURL string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Relay       RelayConfig    `yaml:"relay"`
	Dispatch    DispatchConfig `yaml:"dispatch"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
