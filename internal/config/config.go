package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	FrontendConsole   = "console"
	FrontendWebsocket = "websocket"

	ScoreboardMemory = "memory"
	ScoreboardRedis  = "redis"
)

type Config struct {
	LogLevel     string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Frontend     string        `yaml:"frontend" env:"FRONTEND" env-default:"console"`
	SocketPort   string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	ThinkDelay   time.Duration `yaml:"think-delay" env:"THINK_DELAY" env-default:"1s"`
	MovePriority string        `yaml:"move-priority" env:"MOVE_PRIORITY" env-default:"strict"`
	ResetScore   bool          `yaml:"reset-score" env:"RESET_SCORE"`
	Seed         uint64        `yaml:"seed" env:"SEED" env-default:"0"`
	Scoreboard   string        `yaml:"scoreboard" env:"SCOREBOARD" env-default:"memory"`
	Redis        Redis         `yaml:"redis"`
}

type Redis struct {
	Host string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL  time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

// MustLoad - load configuration from the yaml file at path, or from the environment when the file is absent.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		err = cleanenv.ReadEnv(config)
	} else {
		err = cleanenv.ReadConfig(path, config)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
