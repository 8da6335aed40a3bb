package config

import "time"

type Config struct {
	Environment Environment
	Log         Log

	API     API        `envPrefix:"API_"`
	Storage Storage    `envPrefix:"STORAGE_"`
	Stub    StubServer `envPrefix:"STUB_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// API configures the remote catalog & order API client.
type API struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:5266"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Storage configures the on-device persistent store.
type Storage struct {
	Path string `env:"PATH" envDefault:"storefront.db"`
	// Ephemeral swaps the sqlite store for an in-memory one; nothing
	// survives the process.
	Ephemeral bool `env:"EPHEMERAL" envDefault:"false"`
}

// StubServer configures the local development API server.
type StubServer struct {
	Host         string `env:"HOST" envDefault:"0.0.0.0"`
	Port         string `env:"PORT" envDefault:"5266"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"stubserver.db"`
	JWTSecret    string `env:"JWT_SECRET" envDefault:"local-dev-secret-change-me"`
}
