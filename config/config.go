package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	Orders   OrdersConfig   `yaml:"orders"`
	ClaimBox ClaimBoxConfig `yaml:"claimbox"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                           string `yaml:"host"`
	Port                           int    `yaml:"port"`
	ClaimEventsTopicName           string `yaml:"claim_events_topic_name"`
	ReturnShipmentUpdatedTopicName string `yaml:"return_shipment_updated_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// OrdersConfig points at the order service used to price new claims.
type OrdersConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ClaimBoxConfig struct {
	HTTPAddr               string `yaml:"http_addr"`
	KafkaConsumerGroup     string `yaml:"kafka_consumer_group"`
	CurrentClaimTTLSeconds int    `yaml:"current_claim_ttl_seconds"`

	WorkerPollIntervalSeconds int            `yaml:"worker_poll_interval_seconds"`
	WorkerBatchSize           int            `yaml:"worker_batch_size"`
	WorkerConcurrency         int            `yaml:"worker_concurrency"`
	WorkerLeaseSeconds        int            `yaml:"worker_lease_seconds"`
	WorkerRateLimitPerMinute  int            `yaml:"worker_rate_limit_per_minute"`
	WorkerCarrierRateLimits   map[string]int `yaml:"worker_carrier_rate_limits"`

	WorkerHTTPAddr string `yaml:"worker_http_addr"`

	// Return parcel scheduling. Unset values fall back to
	// in transit 30..120 minutes, unknown 90 minutes, delivered 24 hours
	// and backoff 5/15/30/60 minutes.
	WorkerNextCheckInTransitMinSeconds int   `yaml:"worker_next_check_in_transit_min_seconds"`
	WorkerNextCheckInTransitMaxSeconds int   `yaml:"worker_next_check_in_transit_max_seconds"`
	WorkerNextCheckUnknownSeconds      int   `yaml:"worker_next_check_unknown_seconds"`
	WorkerNextCheckDeliveredSeconds    int   `yaml:"worker_next_check_delivered_seconds"`
	WorkerBackoffSeconds               []int `yaml:"worker_backoff_seconds"`

	CarrierEmulatorBaseURL string `yaml:"carrier_emulator_base_url"`
	CarrierEmulatorMode    string `yaml:"carrier_emulator_mode"` // "fake" | "emulator" | "track24"
	CarrierEmulatorAPIKey  string `yaml:"carrier_emulator_api_key"`
	CarrierEmulatorDomain  string `yaml:"carrier_emulator_domain"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
