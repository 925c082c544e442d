// Package config reads process configuration from the environment so main
// stays lean. Every setting has a development default except the upstream
// case API, which must be configured.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Auth     Auth
	CaseAPI  CaseAPI
	Prefill  Prefill
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig
	Cases    Cases
	LogLevel string `validate:"oneof=debug info warn error"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `validate:"required"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// Auth configures bearer-token validation for inbound requests.
type Auth struct {
	JWTSigningKey string `validate:"required"`
	Issuer        string
	Audience      string
}

// CaseAPI configures the upstream case-exchange API client.
type CaseAPI struct {
	BaseURL string `validate:"required,url"`
	// SystemToken is sent when a call is made with the service's own identity.
	SystemToken string
	Timeout     time.Duration `validate:"gt=0"`
}

// Prefill configures the document-content generator client.
type Prefill struct {
	// BaseURL empty disables mediated participant additions.
	BaseURL string        `validate:"omitempty,url"`
	Timeout time.Duration `validate:"gt=0"`
}

// RedisConfig configures the case-lock store.
type RedisConfig struct {
	// URL empty disables locking (single-replica development).
	URL          string
	PoolSize     int `validate:"gte=1"`
	MinIdleConns int `validate:"gte=0"`
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LockTTL      time.Duration `validate:"gt=0"`
}

// KafkaConfig configures the audit publisher.
type KafkaConfig struct {
	// Brokers empty switches audit to structured logs.
	Brokers    []string
	AuditTopic string `validate:"required"`
}

// TracingConfig configures the OTLP span exporter.
type TracingConfig struct {
	Endpoint string
	Insecure bool
}

// Cases configures case processing.
type Cases struct {
	// Timezone resolves date-times that carry no offset.
	Timezone     string `validate:"required"`
	BatchWorkers int    `validate:"gte=1,lte=64"`
}

// Location loads the configured timezone.
func (c Cases) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// FromEnv builds a Config from environment variables and validates it.
func FromEnv() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup in place of the environment.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	env := &reader{lookup: lookup}

	cfg := Config{
		Server: Server{
			Addr:            env.str("CASEBRIDGE_ADDR", ":8080"),
			ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: Auth{
			// Development default; override in every deployed environment.
			JWTSigningKey: env.str("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:        env.str("JWT_ISSUER", ""),
			Audience:      env.str("JWT_AUDIENCE", ""),
		},
		CaseAPI: CaseAPI{
			BaseURL:     env.str("CASE_API_URL", ""),
			SystemToken: env.str("CASE_API_SYSTEM_TOKEN", ""),
			Timeout:     env.duration("CASE_API_TIMEOUT", 10*time.Second),
		},
		Prefill: Prefill{
			BaseURL: env.str("PREFILL_URL", ""),
			Timeout: env.duration("PREFILL_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:          env.str("REDIS_URL", ""),
			PoolSize:     env.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: env.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  env.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  env.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: env.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			LockTTL:      env.duration("CASE_LOCK_TTL", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    env.list("KAFKA_BROKERS"),
			AuditTopic: env.str("AUDIT_TOPIC", "casebridge.audit"),
		},
		Tracing: TracingConfig{
			Endpoint: env.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure: env.bool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
		Cases: Cases{
			Timezone:     env.str("CASEBRIDGE_TIMEZONE", "Europe/Oslo"),
			BatchWorkers: env.int("VIEW_BATCH_WORKERS", 8),
		},
		LogLevel: strings.ToLower(env.str("LOG_LEVEL", "info")),
	}

	if env.err != nil {
		return Config{}, env.err
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Cases.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// reader records the first malformed value so FromLookup reports one error.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (r *reader) str(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) bool(key string, def bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}

func (r *reader) list(key string) []string {
	v, ok := r.raw(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("parse %s=%q: %w", key, value, err)
	}
}
