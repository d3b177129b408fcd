package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kdv2001/authd/internal/cache"
	eventsMock "github.com/kdv2001/authd/internal/clients/events/mock"
	eventsRedis "github.com/kdv2001/authd/internal/clients/events/redis"
	handlers "github.com/kdv2001/authd/internal/handlers/http"
	"github.com/kdv2001/authd/internal/pkg/logger"
	"github.com/kdv2001/authd/internal/pkg/metrics"
	"github.com/kdv2001/authd/internal/store/postgres/users"
	"github.com/kdv2001/authd/internal/token"
	userUsecases "github.com/kdv2001/authd/internal/usecases/user"
)

func main() {
	log.Fatal(initService())
}

func initService() error {
	ctx := context.Background()

	initValues, err := initFlags()
	if err != nil {
		return err
	}

	sugarLogger, err := logger.New()
	if err != nil {
		return err
	}

	postgresConn, err := pgxpool.New(ctx, initValues.postgresDSN)
	if err != nil {
		return err
	}
	if err = postgresConn.Ping(ctx); err != nil {
		return err
	}

	usersStore, err := users.NewImplementation(ctx, postgresConn)
	if err != nil {
		return err
	}

	codec, err := token.NewCodec(token.Config{
		Secret: []byte(initValues.secretKey),
		TTL:    initValues.tokenTTL,
	})
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	if initValues.redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: initValues.redisAddr,
		})
	}

	sessionCache := cache.New(cache.Config{
		TTL:       initValues.cacheTTL,
		LocalSize: initValues.cacheSize,
	}, redisClient)

	var publisher userUsecases.EventPublisher = eventsMock.NewClient()
	if redisClient != nil {
		publisher = eventsRedis.NewClient(redisClient, initValues.eventsStream)
	}

	userUC := userUsecases.NewImplementation(usersStore, sessionCache, codec, publisher)

	serviceMetrics := metrics.New()
	impl := handlers.New(userUC, serviceMetrics)
	router := handlers.NewRouter(impl, handlers.NewAuthMiddleware(userUC), sugarLogger)

	logger.Infof(logger.ToContext(ctx, sugarLogger),
		"starting server on %s", initValues.serverAddr)

	return http.ListenAndServe(initValues.serverAddr, router)
}
