package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	PostgresDB PostgresDB `yaml:"db"`
	Auth       Auth       `yaml:"auth"`
	Redis      Redis      `yaml:"rdb"`
	Seed       Seed       `yaml:"seed"`
}

type Server struct {
	Addr         string        `env:"SERVER_ADDR"  env-default:":8080" yaml:"addr"`
	ReadTimeout  time.Duration `env-default:"5s"   yaml:"readTimeout"`
	IdleTimeout  time.Duration `env-default:"30s"  yaml:"idleTimeout"`
	WriteTimeout time.Duration `env-default:"10s"  yaml:"writeTimeout"`
}

type Logger struct {
	Level     string   `env:"LOG_LEVEL" env-default:"info"   yaml:"level"`
	Output    []string `env-default:"stdout"                 yaml:"output"`
	ErrOutput []string `env-default:"stderr"                 yaml:"errOutput"`
}

type PostgresDB struct {
	Addr     string `env:"POSTGRES_ADDR"     env-default:"localhost:5432" yaml:"addr"`
	Username string `env:"POSTGRES_USER"     env-required:"true"          yaml:"username"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	DB       string `env:"POSTGRES_DB"       env-required:"true"          yaml:"db"`
	SSLmode  string `env-default:"disable"   yaml:"sslmode"`
	MaxConns string `env-default:"10"        yaml:"maxConns"`
	Reload   bool   `yaml:"reload"`
	Version  int    `yaml:"version"`
}

// Auth.TTL of zero issues tokens without an expiry claim.
type Auth struct {
	TTL        time.Duration `env:"JWT_TTL"    yaml:"ttl"`
	Secret     string        `env:"JWT_SECRET" env-required:"true" yaml:"secret"`
	BcryptCost int           `env-default:"10" yaml:"bcryptCost"`
}

// Redis is optional: an empty Addr disables the seeding lock.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR"     yaml:"addr"`
	Password string        `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `env-default:"30s"    yaml:"lockTTL"`
}

// Seed.Skip disables admin seeding at startup; `bookshelf seed` ignores it.
type Seed struct {
	Skip     bool   `env:"SEED_SKIP"      yaml:"skip"`
	Username string `env-default:"admin"  yaml:"username"`
	Password string `env:"ADMIN_PASSWORD" env-default:"admin"       yaml:"password"`
	Email    string `env-default:"admin@super"                      yaml:"email"`
}

// New reads the configuration file at configPath (yaml or .env) and applies
// environment overrides. An empty path reads the environment only.
func New(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env error: %w", err)
		}

		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	return cfg, nil
}
