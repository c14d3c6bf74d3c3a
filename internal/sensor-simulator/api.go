package sensor_simulator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/farmtwin/internal/model"
	"github.com/LeonardoBeccarini/farmtwin/internal/model/messages"
	"github.com/LeonardoBeccarini/farmtwin/pkg/rediscache"
)

// CacheReader reads back the cached payload and checks the cache is reachable.
type CacheReader interface {
	Get(ctx context.Context, key string) (string, error)
	Ping(ctx context.Context) error
}

// NewHTTPMux exposes the last reading, health endpoints and metrics.
//
//	GET /readings/latest   cached reading, falling back to the in-memory one
//	GET /healthz           liveness
//	GET /readyz            200 only if the cache answers a ping
//	GET /metrics           prometheus exposition
func NewHTTPMux(sim *SensorSimulator, cache CacheReader, metrics *Metrics, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		ready := cache != nil && cache.Ping(ctx) == nil
		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"ready": ready})
	})

	mux.HandleFunc("/readings/latest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		reading, source, ok := latestReading(ctx, sim, cache, logger)
		if !ok {
			http.Error(w, "no reading available", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Data-Source", source)
		_ = json.NewEncoder(w).Encode(reading)
	})

	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}
	return mux
}

// prima la cache (condivisa con gli altri consumer), poi la memoria
func latestReading(ctx context.Context, sim *SensorSimulator, cache CacheReader, logger *zap.Logger) (model.SensorReading, string, bool) {
	if cache != nil {
		payload, err := cache.Get(ctx, sim.Settings().CacheKey)
		switch {
		case err == nil:
			reading, derr := messages.DecodeSensorReading(payload)
			if derr == nil {
				return reading, "cache", true
			}
			logger.Warn("cached reading is not valid JSON", zap.Error(derr))
		case errors.Is(err, rediscache.ErrCacheMiss):
		default:
			logger.Warn("cache read failed", zap.Error(err))
		}
	}
	if reading, ok := sim.Latest(); ok {
		return reading, "memory", true
	}
	return model.SensorReading{}, "", false
}
