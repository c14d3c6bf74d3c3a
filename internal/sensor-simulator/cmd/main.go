// internal/sensor-simulator/cmd/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	sensorSimulator "github.com/LeonardoBeccarini/farmtwin/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/farmtwin/internal/services/persistence"
	"github.com/LeonardoBeccarini/farmtwin/pkg/logger"
	"github.com/LeonardoBeccarini/farmtwin/pkg/rabbitmq"
	"github.com/LeonardoBeccarini/farmtwin/pkg/rediscache"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env file not loaded: %v", err)
	}

	cfg := loadConfig()
	cfg.bindFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "sensor-simulator")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error("simulator exited with error", zap.Error(err))
		_ = lg.Sync()
		os.Exit(1)
	}
	lg.Info("simulator stopped")
}

func run(ctx context.Context, cfg Config, lg *zap.Logger) error {
	// --- Redis (cache + pub/sub) ---
	// se redis non risponde si parte comunque: ogni tick ritenta
	transport := rediscache.ConnectLazy(ctx, rediscache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, 5, lg)

	generator := sensorSimulator.NewSignalGenerator(cfg.DeviceID,
		sensorSimulator.WithCycleDuration(cfg.CycleDuration))
	metrics := sensorSimulator.NewMetrics(cfg.DeviceID)
	sim := sensorSimulator.NewSensorSimulator(generator, transport, sensorSimulator.Settings{
		Channel:        cfg.Channel,
		CacheKey:       cfg.CacheKey,
		CacheTTL:       cfg.CacheTTL,
		PublishTimeout: cfg.PublishTimeout,
	}, metrics, lg)

	// --- MQTT (opzionale) ---
	if cfg.MQTTEnabled {
		mqCfg := &rabbitmq.RabbitMQConfig{
			Host:     cfg.MQTTHost,
			Port:     cfg.MQTTPort,
			User:     cfg.MQTTUser,
			Password: cfg.MQTTPassword,
			ClientID: cfg.mqttClientID(),
		}
		client, err := rabbitmq.NewRabbitMQConn(ctx, mqCfg, lg)
		if err != nil {
			_ = transport.Close()
			return err
		}
		publisher := rabbitmq.NewPublisher(client, cfg.topic(cfg.MQTTReadingsTopic))
		publisher.SetRetained(true)
		sim.AddSink(sensorSimulator.NewMQTTSink(publisher))
		sim.SetCommandConsumer(rabbitmq.NewConsumer(client, cfg.topic(cfg.MQTTCommandsTopic), nil, lg))
	}

	// --- InfluxDB (opzionale) ---
	if cfg.InfluxEnabled() {
		writer, err := persistence.NewReadingWriter(persistence.InfluxConfig{
			InfluxURL:       cfg.InfluxURL,
			InfluxToken:     cfg.InfluxToken,
			InfluxOrg:       cfg.InfluxOrg,
			InfluxBucket:    cfg.InfluxBucket,
			MeasurementName: cfg.InfluxMeasurement,
		}, persistence.BreakerConfig{
			Failures: uint32(cfg.CBFailures),
			OpenFor:  cfg.CBOpenFor,
		}, lg)
		if err != nil {
			lg.Warn("influx disabled", zap.Error(err))
		} else {
			sim.AddSink(writer)
		}
	}

	// --- HTTP: /readings/latest, /healthz, /readyz, /metrics ---
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           sensorSimulator.NewHTTPMux(sim, transport, metrics, lg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		lg.Info("HTTP listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("http server error", zap.Error(err))
		}
	}()

	// --- gRPC health (opzionale) ---
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			lg.Error("grpc listen failed", zap.String("port", cfg.GRPCPort), zap.Error(err))
		} else {
			grpcServer, hs := sensorSimulator.NewGrpcHealthServer()
			go sensorSimulator.WatchReadiness(ctx, hs, transport.Ping, 10*time.Second, lg)
			go func() {
				lg.Info("gRPC health listening", zap.String("addr", lis.Addr().String()))
				if err := grpcServer.Serve(lis); err != nil {
					lg.Error("grpc server error", zap.Error(err))
				}
			}()
			defer grpcServer.GracefulStop()
		}
	}

	// blocca fino a SIGINT/SIGTERM; Start chiude transport e sink in uscita
	sim.Start(ctx, cfg.Interval)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("http shutdown", zap.Error(err))
	}
	return nil
}
