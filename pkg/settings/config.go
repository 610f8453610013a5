package settings

import "github.com/huynhanx03/go-batchbuffer/pkg/mq/batcher"

type Config struct {
	Server        Server         `yaml:"server"`
	Logger        Logger         `yaml:"logger"`
	Batcher       batcher.Config `yaml:"batcher"`
	Sink          Sink           `yaml:"sink"`
	Kafka         Kafka          `yaml:"kafka"`
	Redis         Redis          `yaml:"redis"`
	Elasticsearch Elasticsearch  `yaml:"elasticsearch"`
	MongoDB       MongoDB        `yaml:"mongodb"`
}

// Server is the configuration for the ingest HTTP server
type Server struct {
	Mode            string `yaml:"mode" validate:"omitempty,oneof=debug release test"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port" validate:"gte=0,lte=65535"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"`                  // Seconds
	NodeID          int64  `yaml:"node_id" validate:"gte=0,lte=1023"` // Request id generator node
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	FileLogName string `yaml:"file_log_name"`
	MaxBackups  int    `yaml:"max_backups"`
	MaxAge      int    `yaml:"max_age"`
	MaxSize     int    `yaml:"max_size"`
	Compress    bool   `yaml:"compress"`
}

// Sink selects where flushed batches are written
type Sink struct {
	Kind    string `yaml:"kind" validate:"oneof=stdout kafka redis elasticsearch mongodb"`
	Target  string `yaml:"target" validate:"required_unless=Kind stdout"` // topic, list key, index or collection
	Timeout int    `yaml:"timeout"`                                       // Seconds per batch
}

// Redis is the configuration for Redis
type Redis struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Password        string `yaml:"password"`
	Database        int    `yaml:"database"`
	PoolSize        int    `yaml:"pool_size"`
	MinIdleConns    int    `yaml:"min_idle_conns"`
	PoolTimeout     int    `yaml:"pool_timeout"`
	DialTimeout     int    `yaml:"dial_timeout"`
	ReadTimeout     int    `yaml:"read_timeout"`
	WriteTimeout    int    `yaml:"write_timeout"`
	MaxRetries      int    `yaml:"max_retries"`
	MaxRetryBackoff int    `yaml:"max_retry_backoff"`
	MinRetryBackoff int    `yaml:"min_retry_backoff"`
	MaxListLength   int64  `yaml:"max_list_length"` // 0 keeps the list unbounded
}

// Kafka is the configuration for Kafka
type Kafka struct {
	Brokers         []string `yaml:"brokers"`
	ClientID        string   `yaml:"client_id"`
	FlushFrequency  int      `yaml:"flush_frequency"`   // Milliseconds
	FlushBytes      int      `yaml:"flush_bytes"`       // Bytes
	MaxMessageBytes int      `yaml:"max_message_bytes"` // Bytes
	Timeout         int      `yaml:"timeout"`           // Seconds
	MaxRetries      int      `yaml:"max_retries"`       // Number of retries
	RetryBackoff    int      `yaml:"retry_backoff"`     // Milliseconds
}

// Elasticsearch is the configuration for Elasticsearch
type Elasticsearch struct {
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Refresh   string   `yaml:"refresh" validate:"omitempty,oneof=true false wait_for"`
}

// MongoDB is the configuration for MongoDB
type MongoDB struct {
	Host            string `yaml:"host"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	MaxPoolSize     uint64 `yaml:"max_pool_size"`
	MinPoolSize     uint64 `yaml:"min_pool_size"`
	MaxConnIdleTime uint64 `yaml:"max_conn_idle_time"`
	Port            int    `yaml:"port"`
	Timeout         int    `yaml:"timeout"`
}
