package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	DeviceID       string
	Interval       time.Duration
	CycleDuration  time.Duration
	PublishTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Channel       string
	CacheKey      string
	CacheTTL      time.Duration

	// MQTT (opzionale): mirror delle letture + comandi attuatori
	MQTTEnabled       bool
	MQTTHost          string
	MQTTPort          int
	MQTTUser          string
	MQTTPassword      string
	MQTTClientID      string
	MQTTReadingsTopic string
	MQTTCommandsTopic string

	// Influx (opzionale): vuoto = disabilitato
	InfluxURL         string
	InfluxToken       string
	InfluxOrg         string
	InfluxBucket      string
	InfluxMeasurement string
	CBFailures        int
	CBOpenFor         time.Duration

	HTTPPort string
	GRPCPort string

	LogLevel  string
	LogFormat string
}

func getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

// getenvDuration accepts Go durations ("2s") or plain seconds ("2").
func getenvDuration(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return d
}

func loadConfig() Config {
	deviceID := getenv("DEVICE_ID", "SIMULATOR_001")
	return Config{
		DeviceID:       deviceID,
		Interval:       getenvDuration("PUBLISH_INTERVAL", 2*time.Second),
		CycleDuration:  getenvDuration("CYCLE_DURATION", 120*time.Second),
		PublishTimeout: getenvDuration("PUBLISH_TIMEOUT", time.Second),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),
		Channel:       getenv("REDIS_CHANNEL", "sensor:updates"),
		CacheKey:      getenv("REDIS_CACHE_KEY", "sensor:current"),
		CacheTTL:      getenvDuration("CACHE_TTL", 300*time.Second),

		MQTTEnabled:       getenvBool("MQTT_ENABLED", false),
		MQTTHost:          getenv("MQTT_HOST", "localhost"),
		MQTTPort:          getenvInt("MQTT_PORT", 1883),
		MQTTUser:          getenv("MQTT_USER", ""),
		MQTTPassword:      getenv("MQTT_PASSWORD", ""),
		MQTTClientID:      getenv("MQTT_CLIENT_ID", ""),
		MQTTReadingsTopic: getenv("MQTT_READINGS_TOPIC", "greenhouse/{device}/readings"),
		MQTTCommandsTopic: getenv("MQTT_COMMANDS_TOPIC", "greenhouse/{device}/commands"),

		InfluxURL:         getenv("INFLUX_URL", ""),
		InfluxToken:       getenv("INFLUX_TOKEN", ""),
		InfluxOrg:         getenv("INFLUX_ORG", "farmtwin"),
		InfluxBucket:      getenv("INFLUX_BUCKET", "greenhouse"),
		InfluxMeasurement: getenv("INFLUX_MEASUREMENT", "greenhouse_reading"),
		CBFailures:        getenvInt("CB_FAILURES", 3),
		CBOpenFor:         getenvDuration("CB_OPEN_FOR", 30*time.Second),

		HTTPPort: getenv("HTTP_PORT", "8080"),
		GRPCPort: getenv("GRPC_PORT", ""),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
	}
}

// bindFlags lets command-line flags override the environment.
func (c *Config) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DeviceID, "device-id", c.DeviceID, "simulated device identifier")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "publish interval")
	fs.DurationVar(&c.CycleDuration, "cycle", c.CycleDuration, "length of one simulated day")
	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "redis host:port")
	fs.BoolVar(&c.MQTTEnabled, "mqtt", c.MQTTEnabled, "mirror readings on MQTT and accept actuator commands")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug|info|warn|error")
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DeviceID) == "" {
		errs = append(errs, errors.New("device id must not be empty"))
	}
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("publish interval must be positive, got %s", c.Interval))
	}
	if c.CycleDuration <= 0 {
		errs = append(errs, fmt.Errorf("cycle duration must be positive, got %s", c.CycleDuration))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache ttl must be positive, got %s", c.CacheTTL))
	}
	if c.RedisAddr == "" {
		errs = append(errs, errors.New("redis address must not be empty"))
	}
	return errors.Join(errs...)
}

// topic expands the {device} placeholder.
func (c *Config) topic(tmpl string) string {
	return strings.ReplaceAll(tmpl, "{device}", c.DeviceID)
}

// mqttClientID defaults to "<device>-<short uuid>" so restarts never clash with a stale session.
func (c *Config) mqttClientID() string {
	if c.MQTTClientID != "" {
		return c.MQTTClientID
	}
	return c.DeviceID + "-" + uuid.NewString()[:8]
}

func (c *Config) InfluxEnabled() bool { return c.InfluxURL != "" }
