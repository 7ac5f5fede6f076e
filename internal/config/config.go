package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTP  HTTP  `yaml:"http"`
	Log   Log   `yaml:"log"`
	Media Media `yaml:"media"`
}

type HTTP struct {
	Addr           string   `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-default:"*"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Media struct {
	ListenIP         string `yaml:"listen_ip" env:"MEDIASOUP_LISTEN_IP" env-default:"0.0.0.0"`
	AnnouncedAddress string `yaml:"announced_address" env:"MEDIASOUP_ANNOUNCED_IP" env-default:"127.0.0.1"`
	RtcMinPort       uint16 `yaml:"rtc_min_port" env:"MEDIASOUP_RTC_MIN_PORT" env-default:"10000"`
	RtcMaxPort       uint16 `yaml:"rtc_max_port" env:"MEDIASOUP_RTC_MAX_PORT" env-default:"10100"`
}

// Load reads the yaml file when present, then applies env overrides. A
// missing file is fine: everything has an env default.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
