// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable; strings for identifiers and secrets, ints
// for minute quantities.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to verify operator tokens
	SlotMinutes  int    // grid slot granularity in minutes
	AnchorMinute int    // start-of-day minute used when renumbering a reordered list
	ConflictCron string // cron spec of the periodic conflict scan
}

// Load reads configuration from the environment.  Required variables are
// enforced by must(); missing values exit with a fatal log message.  The
// scheduling knobs have defaults: 15-minute slots, an 08:00 anchor and an
// hourly conflict scan.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		SlotMinutes:  intOr("SLOT_MINUTES", 15),
		AnchorMinute: intOr("DAY_ANCHOR_MINUTE", 8*60),
		ConflictCron: getenv("CONFLICT_SCAN_CRON", "@hourly"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr returns the integer value of an env var, or def when unset.  A
// malformed value is fatal rather than silently defaulted.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
