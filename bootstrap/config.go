package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	EnginePath    string `mapstructure:"ENGINE_PATH"`
	EngineWorkDir string `mapstructure:"ENGINE_WORK_DIR"`
	RedisUrl      string `mapstructure:"REDIS_URL"`
	CacheTTLHours int    `mapstructure:"CACHE_TTL_HOURS"`
	Simulations   int    `mapstructure:"SIMULATIONS"`
	Goroutines    int    `mapstructure:"GOROUTINES"`
	Widen         bool   `mapstructure:"WIDEN"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
