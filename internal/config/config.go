package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits list-valued variables
	"time"    // time expresses the token lifetime

	"github.com/joho/godotenv" // godotenv loads an optional .env file into the environment
)

// DefaultAllowedOrigins lists the browser origins that may call the API when
// CORS_ALLOWED_ORIGINS is not set.
const DefaultAllowedOrigins = "http://localhost:3000,https://sg-green-plan-server.onrender.com"

// Config holds all runtime configuration values.  It is built once at
// startup and passed by value; nothing mutates it afterwards, including the
// JWT secret which is handed to the token codec at construction time.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	LogLevel       string        // debug | info | warn | error | off
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	DBCAPath       string        // PEM bundle for the database TLS connection
	DBMaxConns     int           // connection pool capacity
	AutoMigrate    bool          // create missing tables at startup
	JWTSecret      string        // secret used to sign session tokens
	AccessTTL      time.Duration // session token lifetime
	BcryptCost     int           // bcrypt cost for password hashing
	AllowedOrigins []string      // CORS allow-list
	AMQPURL        string        // RabbitMQ URL; empty disables activity events
	EventsQueue    string        // queue receiving activity events
}

// Load reads configuration values from the environment and returns a Config.
// A .env file in the working directory is merged first when present; real
// environment variables always win over it.
func Load() Config {
	_ = godotenv.Load() // a missing .env is normal outside local development

	return Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "3000"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		DBUser:         must("DB_USER"),
		DBPass:         firstEnv("DB_PASSWORD", "DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         envStr("DB_PORT", "3306"),
		DBName:         must("DB_NAME"),
		DBCAPath:       envStr("DB_CA_PATH", "./ca.pem"),
		DBMaxConns:     envInt("DB_MAX_CONNS", 10),
		AutoMigrate:    envBool("DB_AUTO_MIGRATE", true),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTL:      time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 60)) * time.Minute,
		BcryptCost:     envInt("BCRYPT_COST", 10),
		AllowedOrigins: splitList(envStr("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins)),
		AMQPURL:        firstEnv("RABBITMQ_URL", "AMQP_URL"),
		EventsQueue:    envStr("EVENTS_QUEUE", "recycling.activity"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
