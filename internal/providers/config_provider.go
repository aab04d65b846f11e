package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"zapperd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "ZAPPERD_LOG_LEVEL")
	viper.BindEnv("persistence.debounceDelay", "ZAPPERD_DEBOUNCE_DELAY")
	viper.BindEnv("relay.backend", "ZAPPERD_RELAY_BACKEND")
	viper.BindEnv("relay.cloudflare.account", "ZAPPERD_KV_ACCOUNT")
	viper.BindEnv("relay.cloudflare.namespace", "ZAPPERD_KV_ID")
	viper.BindEnv("relay.cloudflare.token", "ZAPPERD_KV_TOKEN")
	viper.BindEnv("relay.redis.addr", "ZAPPERD_REDIS_ADDR")
	viper.BindEnv("dispatch.baseUrl", "ZAPPERD_DISPATCH_BASE_URL")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if conf.Relay.TTL <= 0 {
		conf.Relay.TTL = 24 * time.Hour
	}
	if conf.Dispatch.Timeout <= 0 {
		conf.Dispatch.Timeout = 10 * time.Second
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "Zapper Daemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
