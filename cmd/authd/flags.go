package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type flags struct {
	serverAddr   string
	postgresDSN  string
	redisAddr    string
	secretKey    string
	tokenTTL     time.Duration
	cacheTTL     time.Duration
	cacheSize    int
	eventsStream string
}

func initFlags() (flags, error) {
	serverAddr := flag.String("a", ":8081", "The address to bind the server to")
	postgresDSN := flag.String("d", "", "The flag to Postgres DSN")
	redisAddr := flag.String("r", "", "The redis address, empty disables the shared cache tier")
	secretKey := flag.String("s", "", "The token signing secret")
	tokenTTL := flag.Duration("token-ttl", time.Hour, "The session token lifetime")
	cacheTTL := flag.Duration("cache-ttl", time.Hour, "The session cache entry lifetime")
	cacheSize := flag.Int("cache-size", 1024, "The local session cache capacity")
	eventsStream := flag.String("events-stream", "authd:events", "The redis stream for published events")

	flag.Parse()

	if value := os.Getenv("RUN_ADDRESS"); value != "" {
		serverAddr = &value
	}

	dataBaseDSNKey := "DATABASE_URI"
	if value, exist := os.LookupEnv(dataBaseDSNKey); exist {
		if value == "" {
			return flags{}, fmt.Errorf("%s environment variable not set", dataBaseDSNKey)
		}

		postgresDSN = &value
	}

	if value := os.Getenv("REDIS_ADDR"); value != "" {
		redisAddr = &value
	}

	secretKeyEnv := "SECRET_KEY"
	if value, exist := os.LookupEnv(secretKeyEnv); exist {
		if value == "" {
			return flags{}, fmt.Errorf("%s environment variable not set", secretKeyEnv)
		}

		secretKey = &value
	}

	if value := os.Getenv("EVENTS_STREAM"); value != "" {
		eventsStream = &value
	}

	if value := os.Getenv("TOKEN_TTL"); value != "" {
		parsed, err := parseDurationValue(value)
		if err != nil {
			return flags{}, err
		}

		tokenTTL = &parsed
	}

	if value := os.Getenv("CACHE_TTL"); value != "" {
		parsed, err := parseDurationValue(value)
		if err != nil {
			return flags{}, err
		}

		cacheTTL = &parsed
	}

	if value := os.Getenv("CACHE_SIZE"); value != "" {
		parsed, err := parseSizeValue(value)
		if err != nil {
			return flags{}, err
		}

		cacheSize = &parsed
	}

	if *secretKey == "" {
		return flags{}, fmt.Errorf("token signing secret is required")
	}

	return flags{
		serverAddr:   *serverAddr,
		postgresDSN:  *postgresDSN,
		redisAddr:    *redisAddr,
		secretKey:    *secretKey,
		tokenTTL:     *tokenTTL,
		cacheTTL:     *cacheTTL,
		cacheSize:    *cacheSize,
		eventsStream: *eventsStream,
	}, nil
}

func parseDurationValue(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration: %s", value)
	}

	return d, nil
}

func parseSizeValue(value string) (int, error) {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", value, err)
	}
	if intValue <= 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	return intValue, nil
}
