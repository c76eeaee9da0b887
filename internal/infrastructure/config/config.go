package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Stripe     StripeConfig
	Geo        GeoConfig
	Moderation ModerationConfig
	Dispatcher DispatcherConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// KafkaConfig configures the audit event stream. An empty broker list
// disables publishing.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_TOPIC, default=marketplace.events"`
}

type StripeConfig struct {
	APIKey    string `env:"STRIPE_API_KEY"`
	OriginURL string `env:"STRIPE_ORIGIN_URL, default=http://localhost:8080"`
}

// GeoConfig points at the geocoding and routing services used to enrich
// request display. Empty endpoints disable enrichment.
type GeoConfig struct {
	GeocodeEndpoint string `env:"GEO_GEOCODE_ENDPOINT"`
	RouteEndpoint   string `env:"GEO_ROUTE_ENDPOINT"`
}

type ModerationConfig struct {
	MinDigitRun int `env:"MODERATION_MIN_DIGIT_RUN, default=7"`
}

type DispatcherConfig struct {
	Workers int `env:"DISPATCHER_WORKERS, default=8"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
