package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	config "github.com/davicafu/salesboard/internal/config"
	sharedDomain "github.com/davicafu/salesboard/internal/shared/domain"
	sharedEvents "github.com/davicafu/salesboard/internal/shared/events"
	infraCache "github.com/davicafu/salesboard/internal/shared/infra/cache"
	infraEvents "github.com/davicafu/salesboard/internal/shared/infra/events"
	infraOutbox "github.com/davicafu/salesboard/internal/shared/infra/outbox"
	sharedBus "github.com/davicafu/salesboard/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/salesboard/internal/shared/infra/platform/cache"
	sqliteOutbox "github.com/davicafu/salesboard/internal/shared/infra/platform/db/sqlite"
	infraRelayer "github.com/davicafu/salesboard/internal/shared/infra/relayer"
	taskApp "github.com/davicafu/salesboard/internal/task/application"
	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	taskEvents "github.com/davicafu/salesboard/internal/task/infra/inbound/events"
	taskHttp "github.com/davicafu/salesboard/internal/task/infra/inbound/http"
	chAnalytics "github.com/davicafu/salesboard/internal/task/infra/outbound/analytics/clickhouse"
	sqliteAnalytics "github.com/davicafu/salesboard/internal/task/infra/outbound/analytics/sqlite"
	"github.com/davicafu/salesboard/internal/task/infra/outbound/filesystem"
	"github.com/davicafu/salesboard/internal/task/infra/outbound/ingestion"
	"github.com/davicafu/salesboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// ---------------- Main ----------------
func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.LogLevel) // inicializa zap
	log := logger.Logger()    // obtiene logger estructurado
	defer log.Sync()          // flush buffers al salir

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- DB (opcional) ----------------
	var db *sql.DB
	if cfg.AnalyticsSink == config.SinkSQLite || cfg.OutboxBackend == config.OutboxSQLite {
		var err error
		db, err = sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to ping SQLite", zap.Error(err))
		}
	}

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		memCache := infraCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
		defer memCache.Stop()
		cacheInstance = memCache
	} else {
		cacheInstance = infraCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("✅ Redis conectado, cache habilitado")
	}
	defer rdb.Close()

	// --------------- Store y servicio --------------
	store := taskApp.NewTaskStore(taskApp.WithForecastHorizon(cfg.ForecastHorizon))

	var outboxRepo sharedDomain.OutboxRepository
	var outboxWriter sharedDomain.OutboxWriter
	if cfg.OutboxBackend == config.OutboxSQLite {
		repo := sqliteOutbox.NewOutboxRepoSQLite(db)
		if err := repo.InitOutboxSchema(ctx); err != nil {
			log.Fatal("failed to initialize outbox table", zap.Error(err))
		}
		outboxRepo, outboxWriter = repo, repo
	} else {
		repo := infraOutbox.NewInMemoryOutbox()
		outboxRepo, outboxWriter = repo, repo
	}

	taskService := taskApp.NewTaskService(store, outboxWriter, log)

	// ---------------- Carga inicial ----------------
	var source taskDomain.RecordSource
	if inner := ingestion.NewSource(cfg.SeedURL, cfg.SeedTimeout); inner != nil {
		source = ingestion.NewCachedSource(inner, cacheInstance, cfg.SeedURL, cfg.CacheTTL, log)
	}
	loader := taskApp.NewLoader(source, ingestion.NewGenerator(cfg.SeedFallbackSize, cfg.SeedRandom), store, log)
	loader.LoadAsync(ctx)

	// ---------------- Events ---------------
	var eventTaskPublisher sharedBus.EventBus
	var ingestPublisher sharedBus.EventBus
	taskConsumer := taskEvents.NewTaskConsumer(taskService, log)

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		taskWriter := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Topic:    cfg.KafkaTopicTask,
			Balancer: &kafka.Hash{}, // misma tarea, misma partición
		}
		ingestWriter := &kafka.Writer{
			Addr:  kafka.TCP(cfg.KafkaBrokers...),
			Topic: cfg.KafkaTopicIngest,
		}
		defer taskWriter.Close()
		defer ingestWriter.Close()

		eventTaskPublisher = infraEvents.NewKafkaPublisher(taskWriter, log)
		ingestPublisher = infraEvents.NewKafkaPublisher(ingestWriter, log)

		ingestReader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopicIngest,
			GroupID:  "salesboard-task-ingest",
			MinBytes: 1,
			MaxBytes: 10e6, // 10MB
		})
		defer ingestReader.Close()

		infraEvents.NewConsumerAdapter(ingestReader, taskConsumer, log).Start(ctx)
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		eventTaskPublisher = infraEvents.NewInMemoryEventBus(taskDomain.TaskTopic)
		inMemoryIngestBus := infraEvents.NewInMemoryEventBus(taskDomain.TaskIngestTopic)
		ingestPublisher = inMemoryIngestBus

		log.Info("🎧 Iniciando listener en memoria para eventos de ingesta")
		taskEvents.BackgroundConsumerChan(ctx, inMemoryIngestBus.Subscribe(cfg.IngestBuffer), taskConsumer)
	}

	// ------------ Outbox Worker ------------
	eventRegistry := make(map[string]sharedEvents.EventMetadata)
	for k, v := range taskDomain.NewEventRegistry() {
		eventRegistry[k] = v
	}
	outboxWorker := infraRelayer.NewOutboxWorker(outboxRepo, eventTaskPublisher, eventRegistry, cfg.OutboxPeriod, cfg.OutboxLimit, log)
	go outboxWorker.Start(ctx)

	// ------------ Analytics export ------------
	var analyticsRepo taskDomain.TaskAnalyticsRepository
	switch cfg.AnalyticsSink {
	case config.SinkSQLite:
		analyticsRepo = sqliteAnalytics.NewSnapshotRepoSQLite(db)
	case config.SinkJSON:
		analyticsRepo = filesystem.NewJSONSnapshotStorage(cfg.SnapshotFile)
	case config.SinkClickHouse:
		repo, err := chAnalytics.NewSnapshotRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, exportación analítica desactivada", zap.Error(err))
		} else {
			defer repo.Close()
			analyticsRepo = repo
		}
	}
	if analyticsRepo != nil {
		if err := analyticsRepo.InitSchema(ctx); err != nil {
			log.Fatal("failed to initialize analytics schema", zap.Error(err))
		}
		go taskApp.NewAnalyticsExporter(store, analyticsRepo, cfg.ExportPeriod, log).Start(ctx)
	}

	// ---------------- HTTP ----------------
	router := gin.Default()
	taskHttp.RegisterTaskRoutes(router, taskHttp.NewTaskHandler(taskService))
	taskHttp.RegisterIngestRoutes(router, taskHttp.NewIngestHandler(ingestPublisher))

	router.GET("/health", func(c *gin.Context) {
		loading, loadErr := store.LoadState()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "loading": loading, "loadError": loadErr})
	})

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
