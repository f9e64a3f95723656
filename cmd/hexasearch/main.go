package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	config "github.com/davicafu/hexasearch/internal/config"
	sharedEvents "github.com/davicafu/hexasearch/internal/shared/events"
	infraEvents "github.com/davicafu/hexasearch/internal/shared/infra/events"
	chAnalytics "github.com/davicafu/hexasearch/internal/shared/infra/outbound/analytics/clickhouse"
	mongoAnalytics "github.com/davicafu/hexasearch/internal/shared/infra/outbound/analytics/mongodb"
	sharedCache "github.com/davicafu/hexasearch/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/hexasearch/internal/shared/infra/platform/query"
	infraRelayer "github.com/davicafu/hexasearch/internal/shared/infra/relayer"
	userApp "github.com/davicafu/hexasearch/internal/user/application"
	userHttp "github.com/davicafu/hexasearch/internal/user/infra/inbound/http"
	userMySQL "github.com/davicafu/hexasearch/internal/user/infra/outbound/db/mysql"
	userPostgres "github.com/davicafu/hexasearch/internal/user/infra/outbound/db/postgre"
	"github.com/davicafu/hexasearch/internal/user/infra/outbound/db/sqldb"
	userSQLite "github.com/davicafu/hexasearch/internal/user/infra/outbound/db/sqlite"
	"github.com/davicafu/hexasearch/pkg/logger"
)

// ---------------- Main ----------------
func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.LogLevel) // inicializa zap
	log := logger.Logger()    // obtiene logger estructurado
	defer log.Sync()          // flush buffers al salir

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------- DB ----------------
	db, dialect, isTransient, err := openUserDB(cfg)
	if err != nil {
		log.Fatal("failed to open user database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to ping user database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	// Los literales del dialecto deben llegar intactos al motor.
	if err := sqldb.VerifyDialect(ctx, db, dialect); err != nil {
		log.Fatal("user database does not read the generated literals", zap.String("driver", cfg.DBDriver), zap.Stringer("dialect", dialect), zap.Error(err))
	}
	userRepo := sqldb.NewUserSearchRepo(db, isTransient)

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis no disponible, cache en memoria", zap.Error(err))
		memCache := sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
		defer memCache.Stop()
		cacheInstance = memCache
	} else {
		cacheInstance = sharedCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("Redis conectado, cache habilitado")
	}
	defer rdb.Close()

	// ---------------- Auditoría ----------------
	sink, stats, closeAudit, err := buildAudit(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize search audit", zap.String("sink", cfg.AuditSink), zap.Error(err))
	}
	defer closeAudit()

	var recorder userApp.AuditRecorder
	auditDone := make(chan struct{})
	if sink != nil {
		worker := infraRelayer.NewAuditWorker(sink, cfg.AuditPeriod, cfg.AuditBatch, log)
		go func() {
			defer close(auditDone)
			worker.Start(ctx)
		}()
		recorder = worker
	} else {
		close(auditDone)
	}

	// --------------- Servicio --------------
	userService := userApp.NewUserService(userRepo, dialect, cacheInstance, recorder, stats, cfg.CacheTTL, log)

	// ---------------- HTTP ----------------
	router := gin.Default()
	userHttp.RegisterUserRoutes(router, userHttp.NewUserHandler(userService, log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	go func() {
		log.Info("Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	// El worker vuelca lo pendiente antes de cerrar los sinks.
	<-auditDone
}

// openUserDB abre la base de usuarios según DB_DRIVER, crea el esquema si no existe y
// devuelve el dialecto con el que hay que escribir sus literales.
func openUserDB(cfg *config.Config) (*sql.DB, sharedQuery.Dialect, sqldb.TransientFunc, error) {
	var (
		db          *sql.DB
		dialect     sharedQuery.Dialect
		isTransient sqldb.TransientFunc
		initSchema  func(*sql.DB) error
		err         error
	)

	switch cfg.DBDriver {
	case "sqlite":
		db, err = userSQLite.Open(cfg.SQLitePath)
		dialect, isTransient, initSchema = sharedQuery.Standard, userSQLite.IsTransient, userSQLite.InitSQLite
	case "mysql":
		db, err = userMySQL.Open(cfg.MySQLDSN)
		dialect, isTransient, initSchema = sharedQuery.MySQL, userMySQL.IsTransient, userMySQL.InitMySQL
	case "postgres":
		db, err = userPostgres.Open(cfg.PostgresDSN)
		dialect, isTransient, initSchema = sharedQuery.Standard, userPostgres.IsTransient, userPostgres.InitPostgres
	default:
		return nil, dialect, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, dialect, nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, dialect, nil, fmt.Errorf("init %s schema: %w", cfg.DBDriver, err)
	}
	return db, dialect, isTransient, nil
}

// buildAudit elige el destino de los eventos de búsqueda. Los stores analíticos
// (ClickHouse, MongoDB) también sirven las estadísticas diarias.
func buildAudit(ctx context.Context, cfg *config.Config, log *zap.Logger) (sharedEvents.AuditSink, sharedEvents.AuditStats, func(), error) {
	noop := func() {}

	switch cfg.AuditSink {
	case config.AuditSinkNone:
		log.Info("Auditoría de búsquedas deshabilitada")
		return nil, nil, noop, nil

	case config.AuditSinkMemory:
		log.Info("Usando bus de eventos en memoria (canales de Go) para auditoría")
		bus := infraEvents.NewInMemoryEventBus(cfg.KafkaTopicAudit)
		infraEvents.BackgroundConsumerChan(ctx, bus.Subscribe(cfg.AuditBatch), infraEvents.NewAuditConsumer(infraEvents.NewLogSink(log), log), log)
		return infraEvents.NewPublisherSink(bus), nil, noop, nil

	case config.AuditSinkKafka:
		log.Info("Usando Kafka para auditoría", zap.String("topic", cfg.KafkaTopicAudit))
		writer := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopicAudit,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		publisher := infraEvents.NewKafkaPublisher(writer, log)

		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopicAudit,
			GroupID:  cfg.KafkaGroupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		infraEvents.NewConsumerAdapter(reader, infraEvents.NewAuditConsumer(infraEvents.NewLogSink(log), log), log).Start(ctx)

		closeFn := func() {
			if err := publisher.Close(); err != nil {
				log.Warn("Kafka writer close failed", zap.Error(err))
			}
		}
		return infraEvents.NewPublisherSink(publisher), nil, closeFn, nil

	case config.AuditSinkClickHouse:
		repo, err := chAnalytics.NewSearchAuditRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := repo.InitSchema(); err != nil {
			repo.Close()
			return nil, nil, noop, err
		}
		log.Info("Auditoría en ClickHouse", zap.String("addr", cfg.ClickHouseAddr))
		return repo, repo, func() { repo.Close() }, nil

	case config.AuditSinkMongoDB:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, noop, fmt.Errorf("could not connect to mongoDB: %w", err)
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		repo, err := mongoAnalytics.NewSearchAuditRepo(ctx, client, cfg.MongoDB)
		if err != nil {
			closeFn()
			return nil, nil, noop, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn("Mongo index creation failed", zap.Error(err))
		}
		log.Info("Auditoría en MongoDB", zap.String("db", cfg.MongoDB))
		return repo, repo, closeFn, nil

	default:
		return nil, nil, noop, fmt.Errorf("unsupported AUDIT_SINK %q", cfg.AuditSink)
	}
}
