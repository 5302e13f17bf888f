package config

import (
	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
	"net/http"
	"os"
)

type AppConfig struct {
	Env             string            `yaml:"env"`
	DatabaseConfig  DatabaseConfig    `yaml:"databaseConfig"`
	RedisConfig     RedisConfig       `yaml:"redisConfig"`
	GatewayAddr     string            `yaml:"gatewayAddr"`
	IdentityAddr    string            `yaml:"identityAddr"`
	AssignmentsAddr string            `yaml:"assignmentsAddr"`
	Identity        IdentityConfig    `yaml:"identity"`
	Assignments     AssignmentsConfig `yaml:"assignments"`
	S3Config        S3Config          `yaml:"s3Config"`
	JWT             JWTConfig         `yaml:"jwt"`
	Webhook         WebhookConfig     `yaml:"webhook"`
	Admin           AdminConfig       `yaml:"admin"`
	TTL             TTL               `yaml:"TTL"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SecureCookies : secure-флаг у куки ставится только в production
func (cfg *AppConfig) SecureCookies() bool {
	return cfg.Env == "production"
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
