package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	GameTTL    time.Duration `yaml:"game-ttl" env:"GAME_TTL" env-default:"24h"`
	Redis      Redis         `yaml:"redis" env-prefix:"REDIS_"`
	Board      Board         `yaml:"board" env-prefix:"BOARD_"`
}

type Redis struct {
	Host     string `yaml:"host" env:"HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PORT" env-default:"6379"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB" env-default:"0"`
}

type Board struct {
	Width  int `yaml:"width" env:"WIDTH" env-default:"600"`
	Height int `yaml:"height" env:"HEIGHT" env-default:"600"`
	Rows   int `yaml:"rows" env:"ROWS" env-default:"8"`
	Cols   int `yaml:"cols" env:"COLS" env-default:"8"`

	// LayoutFile optionally points to a YAML starting position.
	LayoutFile string `yaml:"layout-file" env:"LAYOUT_FILE"`
}

// Load reads the config file, applies environment overrides and checks the
// board dimensions.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Settings().Validate(); err != nil {
		return nil, fmt.Errorf("invalid board config: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Settings builds the board settings shared by every game.
func (that *Config) Settings() entity.Settings {
	settings := entity.DefaultSettings()
	settings.Width = that.Board.Width
	settings.Height = that.Board.Height
	settings.Rows = that.Board.Rows
	settings.Cols = that.Board.Cols

	return settings
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}

func (that *Redis) String() string {
	return that.GetRedisAddr() + "/" + strconv.Itoa(that.DB)
}
