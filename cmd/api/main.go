package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/api"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/api/handler"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/api/middleware"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/application"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/config"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/seat"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/transaction"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/infrastructure/kafka"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/infrastructure/memory"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/infrastructure/postgres"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/infrastructure/rabbitmq"
	redisinfra "github.com/Vishnujha44/MultiThreadedTicketBookings/internal/infrastructure/redis"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/pkg/logger"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/pkg/metrics"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/worker"
)

func main() {
	if err := run(); err != nil {
		logger.Fatal("起動に失敗しました", zap.Error(err))
	}
}

// stores は予約システムが使う永続化層
type stores struct {
	txm       transaction.Manager
	ledger    booking.Ledger
	inventory seat.Inventory
	checks    []handler.HealthCheck
	closers   []func() error
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("クローズ処理でエラー", zap.Error(err))
		}
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("設定読み込みエラー: %w", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	m := metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	opts := []application.Option{application.WithMetrics(m)}
	opts = append(opts, redisOptions(ctx, cfg, st)...)
	pubOpt, err := publisherOption(cfg, st)
	if err != nil {
		return err
	}
	if pubOpt != nil {
		opts = append(opts, pubOpt)
	}

	system := application.NewBookingSystem(application.BookingSystemConfig{
		TotalSeats: cfg.Booking.TotalSeats,
		LockTTL:    cfg.Redis.LockTTL,
		CacheTTL:   cfg.Redis.CacheTTL,
	}, st.txm, st.ledger, st.inventory, opts...)
	if err := system.Initialize(ctx); err != nil {
		return fmt.Errorf("予約システム初期化エラー: %w", err)
	}

	promoter := worker.NewWaitlistPromoter(system, cfg.Worker.PromoteInterval)
	booker := worker.NewRandomBooker(system, cfg.Worker.LoadGenBookings)
	if cfg.Worker.LoadGenOnStart {
		booker.Trigger()
	}

	e := newServer(cfg, m, system, booker, st.checks)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("サーバー起動", zap.String("port", cfg.Server.Port), zap.Int("total_seats", system.TotalSeats()))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("サーバー起動エラー: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		promoter.Start(gctx)
		return nil
	})
	g.Go(func() error {
		booker.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("サーバーをシャットダウンしています...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		promoter.Stop()
		booker.Stop()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("サーバーシャットダウンエラー: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("サーバーが正常にシャットダウンしました")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Booking.Store == config.StoreMemory {
		logger.Warn("メモリストアを使用します（再起動で予約は消えます）")
		store := memory.New()
		return &stores{txm: store, ledger: store, inventory: store}, nil
	}

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("DB接続エラー: %w", err)
	}
	st := &stores{closers: []func() error{db.Close}}

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
			st.close()
			return nil, err
		}
	}

	gw := postgres.NewGateway(db, cfg.Database.MaxRetries, cfg.Database.RetryDelay)
	st.txm = postgres.NewTxManager(gw)
	st.ledger = postgres.NewBookingRepository(gw)
	st.inventory = postgres.NewSeatRepository(gw, cfg.Booking.TotalSeats)
	st.checks = append(st.checks, handler.HealthCheck{
		Name:  "postgres",
		Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	})
	return st, nil
}

// redisOptions は Redis が有効な場合に空席数キャッシュと分散ロックを設定する
// 接続できない場合は Redis なしで起動する
func redisOptions(ctx context.Context, cfg *config.Config, st *stores) []application.Option {
	if !cfg.Redis.Enabled {
		return nil
	}
	client, err := redisinfra.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn("Redis に接続できません、キャッシュなしで起動します", zap.Error(err))
		return nil
	}
	st.closers = append(st.closers, client.Close)
	st.checks = append(st.checks, handler.HealthCheck{
		Name:  "redis",
		Check: func(ctx context.Context) error { return redisinfra.Ping(ctx, client) },
	})

	opts := []application.Option{
		application.WithSeatCache(redisinfra.NewSeatCache(client, cfg.Redis.KeyPrefix)),
	}
	if cfg.Redis.LockEnabled {
		opts = append(opts, application.WithLockManager(redisinfra.NewLockManager(client, cfg.Redis.KeyPrefix)))
	}
	logger.Info("Redis 有効", zap.String("addr", cfg.Redis.Addr()), zap.Bool("lock", cfg.Redis.LockEnabled))
	return opts
}

func publisherOption(cfg *config.Config, st *stores) (application.Option, error) {
	switch cfg.Notifier.Kind {
	case config.NotifierAMQP:
		p, err := rabbitmq.Dial(cfg.Notifier.AMQPURL, cfg.Notifier.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("RabbitMQ 接続エラー: %w", err)
		}
		st.closers = append(st.closers, p.Close)
		return application.WithPublisher(config.NotifierAMQP, p), nil
	case config.NotifierKafka:
		p := kafka.NewPublisher(cfg.Notifier.KafkaBrokers, cfg.Notifier.KafkaTopic)
		st.closers = append(st.closers, p.Close)
		return application.WithPublisher(config.NotifierKafka, p), nil
	default:
		return nil, nil
	}
}

func newServer(cfg *config.Config, m *metrics.Metrics, system *application.BookingSystem, booker *worker.RandomBooker, checks []handler.HealthCheck) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m, handler.UpdatesPath, "/metrics"))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))

	handler.RegisterRoutes(e, handler.Handlers{
		Health:   handler.NewHealthHandler(checks...),
		Booking:  handler.NewBookingHandler(system),
		Seat:     handler.NewSeatHandler(system),
		Waitlist: handler.NewWaitlistHandler(system),
		LoadGen:  handler.NewLoadGenHandler(booker),
		Updates:  handler.NewUpdatesHandler(system, system),
	})
	return e
}
