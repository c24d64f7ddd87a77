package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"ecoharmony-park/backend/internal/config"
	"ecoharmony-park/backend/internal/db"
	"ecoharmony-park/backend/internal/health"
	"ecoharmony-park/backend/internal/notify"
	"ecoharmony-park/backend/internal/order/metrics"
	orderservice "ecoharmony-park/backend/internal/order/service"
	"ecoharmony-park/backend/internal/park"
	"ecoharmony-park/backend/internal/server"
	sessionrepo "ecoharmony-park/backend/internal/session/repository"
	sessionservice "ecoharmony-park/backend/internal/session/service"
	"ecoharmony-park/backend/internal/telemetry"
	telemetryotel "ecoharmony-park/backend/internal/telemetry/otel"
	"ecoharmony-park/backend/internal/telemetry/producer"
	httptransport "ecoharmony-park/backend/internal/transport/http"
	userrepo "ecoharmony-park/backend/internal/user/repository"
)

const serviceName = "ecoharmony-park"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()

	conn, dialect, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()
	users := newUserRepository(conn, dialect)

	rules := park.Default()
	if cfg.ParkRulesFile != "" {
		if rules, err = park.LoadFile(cfg.ParkRulesFile); err != nil {
			log.Fatalf("park rules: %v", err)
		}
		log.Printf("park rules loaded from %s", cfg.ParkRulesFile)
	}

	monitor := health.NewMonitor()
	monitor.AddPinger("database", conn)

	var sessions sessionrepo.Repository = sessionrepo.NewMemoryRepository()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		sessions = sessionrepo.NewRedisRepository(rdb)
		monitor.AddCheck("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	mailer, err := notify.New(ctx, notify.Settings{
		Transport:          cfg.EmailTransport,
		Sender:             cfg.EmailSender,
		Password:           cfg.EmailPassword,
		SMTPHost:           cfg.SMTPHost,
		SMTPPort:           cfg.SMTPPort,
		Simulate:           cfg.SimulateEmail,
		AWSRegion:          cfg.AWSRegion,
		AWSAccessKeyID:     cfg.AWSAccessKeyID,
		AWSSecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		log.Fatalf("notify: %v", err)
	}
	if mailer.Simulating() {
		log.Println("receipts are simulated (no email credentials configured)")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	kafkaProducer, err := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.PurchaseEventsTopic)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	defer kafkaProducer.Close()
	events := telemetryotel.NewEventEmitter(providers.LoggerProvider)
	if kafkaProducer != nil {
		log.Printf("publishing purchase events to kafka topic %s", cfg.PurchaseEventsTopic)
		events = telemetry.Multi(events, kafkaProducer)
	}

	processor := orderservice.NewProcessor(rules, orderservice.Deps{
		Users:    users,
		Notifier: mailer,
		Events:   events,
		Metrics:  metrics.New(reg),
	})

	httpSrv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httptransport.NewRouter(httptransport.Deps{
			Orders:   processor,
			Sessions: sessionservice.NewService(sessions, users, cfg.SessionLifetime()),
			Health:   monitor,
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcSrv := server.NewGRPCServer(server.Deps{
		Health:       monitor,
		Reflection:   cfg.Env != "production",
		QuietMethods: server.DefaultQuietMethods(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		monitor.Run(gctx, 15*time.Second)
		return nil
	})
	g.Go(func() error {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		log.Printf("gRPC health server listening on %s", cfg.GRPCAddr)
		return grpcSrv.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grpcSrv.GracefulStop()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: %v", err)
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), telemetry.ShutdownDrainDuration)
	if err := telemetry.Drain(drainCtx); err != nil {
		log.Printf("telemetry drain: %v", err)
	}
	cancelDrain()
	otelCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := providers.Shutdown(otelCtx); err != nil {
		log.Printf("otel shutdown: %v", err)
	}
	log.Println("servers stopped")
}

func newUserRepository(conn *sql.DB, dialect db.Dialect) userrepo.Repository {
	if dialect == db.DialectSQLite {
		return userrepo.NewSQLiteRepository(conn)
	}
	return userrepo.NewPostgresRepository(conn)
}
