package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/davicafu/salesboard/internal/shared/infra/utils"
)

const (
	SinkNone       = "none"
	SinkSQLite     = "sqlite"
	SinkClickHouse = "clickhouse"
	SinkJSON       = "json"

	OutboxMemory = "memory"
	OutboxSQLite = "sqlite"
)

type Config struct {
	HTTPPort string
	LogLevel string

	// Ingesta inicial
	SeedURL          string
	SeedTimeout      time.Duration
	SeedFallbackSize int
	SeedRandom       uint64

	// Cache del payload semilla
	RedisAddr string
	CacheTTL  time.Duration

	// Eventos
	UseKafka         bool
	KafkaBrokers     []string
	KafkaTopicTask   string
	KafkaTopicIngest string
	IngestBuffer     int // buffer del suscriptor de ingesta en memoria
	OutboxBackend    string
	OutboxPeriod     time.Duration
	OutboxLimit      int

	// Analítica
	AnalyticsSink   string
	SQLitePath      string
	SnapshotFile    string
	ClickHouseAddr  string
	ClickHouseDB    string
	ExportPeriod    time.Duration
	ForecastHorizon int
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	getInt := func(key string, fallback int) int {
		if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
			return n
		}
		return fallback
	}
	getDuration := func(key string, fallback time.Duration) time.Duration {
		if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
			return d
		}
		return fallback
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	sink := strings.ToLower(getEnv("ANALYTICS_SINK", SinkNone))
	if sink != SinkSQLite && sink != SinkClickHouse && sink != SinkJSON {
		sink = SinkNone
	}

	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SeedURL:          getEnv("SEED_URL", ""),
		SeedTimeout:      getDuration("SEED_TIMEOUT", 5*time.Second),
		SeedFallbackSize: getInt("SEED_FALLBACK_SIZE", 50),
		SeedRandom:       uint64(getInt("SEED_RANDOM", int(time.Now().UnixNano()&0x7fffffff))),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:  getDuration("CACHE_TTL", 5*time.Minute),

		UseKafka:         getEnv("USE_KAFKA", "false") == "true",
		KafkaBrokers:     kafkaBrokers,
		KafkaTopicTask:   getEnv("KAFKA_TOPIC_TASK", "task-events"),
		KafkaTopicIngest: getEnv("KAFKA_TOPIC_INGEST", "task-ingest"),
		IngestBuffer:     positive(getInt("INGEST_BUFFER", 256), 256),
		OutboxBackend:    utils.Ternary(getEnv("OUTBOX_BACKEND", OutboxMemory) == OutboxSQLite, OutboxSQLite, OutboxMemory),
		OutboxPeriod:     getDuration("OUTBOX_PERIOD", 1*time.Second),
		OutboxLimit:      getInt("OUTBOX_LIMIT", 10),

		AnalyticsSink:   sink,
		SQLitePath:      getEnv("SQLITE_PATH", "./salesboard.db"),
		SnapshotFile:    getEnv("SNAPSHOT_FILE", "./salesboard_snapshots.json"),
		ClickHouseAddr:  getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:    getEnv("CLICKHOUSE_DB", "default"),
		ExportPeriod:    getDuration("EXPORT_PERIOD", 30*time.Second),
		ForecastHorizon: getInt("FORECAST_HORIZON", 4),
	}
}

func positive(n, fallback int) int {
	return utils.Ternary(n > 0, n, fallback)
}
