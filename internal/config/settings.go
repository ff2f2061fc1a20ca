package config

import "time"

// Settings contains the application config
type Settings struct {
	Port              int           `env:"PORT" envDefault:"3000"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	ServiceName       string        `env:"SERVICE_NAME" envDefault:"eko-bridge"`
	ResponsePath      string        `env:"RESPONSE_PATH,required"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
}
