package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

type Config struct {
	ServerAddress  string
	PostgresConn   string
	PostgresDB     string
	MigrationsPath string
	JWTSecret      string
	AllowedOrigins []string

	TxTimeout     time.Duration
	LockTimeout   time.Duration
	NotifyTimeout time.Duration

	SSEHeartbeat time.Duration
	SSEBuffer    int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	RabbitURL   string
	RabbitQueue string
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, reading environment variables directly")
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, reporting every missing or malformed
// variable at once.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	e := &env{lookup: lookup}

	cfg := Config{
		ServerAddress:  e.str("SERVER_ADDRESS", ":8080"),
		PostgresConn:   e.must("POSTGRES_CONN"),
		PostgresDB:     e.str("POSTGRES_DATABASE", "postgres"),
		MigrationsPath: e.str("MIGRATIONS_PATH", "file://migrations"),
		JWTSecret:      e.must("JWT_SECRET"),
		AllowedOrigins: e.list("ALLOWED_ORIGINS"),

		TxTimeout:     e.dur("TX_TIMEOUT", 5*time.Second),
		LockTimeout:   e.dur("LOCK_TIMEOUT", 3*time.Second),
		NotifyTimeout: e.dur("NOTIFY_TIMEOUT", 2*time.Second),

		SSEHeartbeat: e.dur("SSE_HEARTBEAT", 25*time.Second),
		SSEBuffer:    e.int("SSE_BUFFER", 16),

		RedisAddr:     e.str("REDIS_ADDR", ""),
		RedisPassword: e.str("REDIS_PASSWORD", ""),
		RedisDB:       e.int("REDIS_DB", 0),
		RedisChannel:  e.str("REDIS_CHANNEL", "freelance:hired"),

		RabbitURL:   e.str("RABBITMQ_URL", ""),
		RabbitQueue: e.str("RABBITMQ_QUEUE", "gig.hired"),
	}

	if cfg.LockTimeout >= cfg.TxTimeout {
		e.fail("LOCK_TIMEOUT must be shorter than TX_TIMEOUT")
	}
	if cfg.SSEBuffer <= 0 {
		e.fail("SSE_BUFFER must be positive")
	}

	if len(e.problems) > 0 {
		return Config{}, fmt.Errorf("config: %s", strings.Join(e.problems, "; "))
	}

	return cfg, nil
}

type env struct {
	lookup   func(string) (string, bool)
	problems []string
}

func (e *env) fail(format string, args ...any) {
	e.problems = append(e.problems, fmt.Sprintf(format, args...))
}

func (e *env) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *env) must(key string) string {
	v, ok := e.get(key)
	if !ok {
		e.fail("missing required env var %s", key)
	}
	return v
}

func (e *env) str(key string, def string) string {
	if v, ok := e.get(key); ok {
		return v
	}
	return def
}

func (e *env) int(key string, def int) int {
	v, ok := e.get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail("invalid int for %s: %q", key, v)
		return def
	}
	return n
}

func (e *env) dur(key string, def time.Duration) time.Duration {
	v, ok := e.get(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		e.fail("invalid duration for %s: %q", key, v)
		return def
	}
	return d
}

func (e *env) list(key string) []string {
	v, ok := e.get(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
