package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort int

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers string
	KafkaTopic   string
	KafkaGroup   string

	RPCURL         string
	DefaultNetwork string

	BytecodeTTL time.Duration
	ReportTTL   time.Duration

	WorkerConcurrency int
	OverridesPath     string
}

var defaults = map[string]interface{}{
	"http_port":          8080,
	"db_host":            "localhost",
	"db_port":            5432,
	"db_user":            "chainscan",
	"db_password":        "chainscan",
	"db_name":            "chainscan",
	"redis_addr":         "localhost:6379",
	"redis_password":     "",
	"redis_db":           0,
	"kafka_brokers":      "localhost:9092",
	"kafka_topic":        "chainscan.jobs",
	"kafka_group":        "chainscan-workers",
	"rpc_url":            "http://localhost:8545",
	"default_network":    "mainnet",
	"bytecode_ttl":       "10m",
	"report_ttl":         "1h",
	"worker_concurrency": 4,
	"overrides_path":     "",
}

// LoadConfig reads configuration from an optional chainscan.yaml plus
// CHAINSCAN_* environment variables, with defaults for every knob.
func LoadConfig() *Config {
	v := viper.New()

	v.SetConfigName("chainscan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/chainscan")
	v.AddConfigPath("$HOME/.chainscan")

	v.SetEnvPrefix("CHAINSCAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// A missing config file is fine; env vars and defaults carry it.
	_ = v.ReadInConfig()

	return &Config{
		HTTPPort:          v.GetInt("http_port"),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetInt("db_port"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBName:            v.GetString("db_name"),
		RedisAddr:         v.GetString("redis_addr"),
		RedisPassword:     v.GetString("redis_password"),
		RedisDB:           v.GetInt("redis_db"),
		KafkaBrokers:      v.GetString("kafka_brokers"),
		KafkaTopic:        v.GetString("kafka_topic"),
		KafkaGroup:        v.GetString("kafka_group"),
		RPCURL:            v.GetString("rpc_url"),
		DefaultNetwork:    v.GetString("default_network"),
		BytecodeTTL:       v.GetDuration("bytecode_ttl"),
		ReportTTL:         v.GetDuration("report_ttl"),
		WorkerConcurrency: v.GetInt("worker_concurrency"),
		OverridesPath:     v.GetString("overrides_path"),
	}
}
