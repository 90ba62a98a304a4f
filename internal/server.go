package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/blogposts/internal/authors"
	"github.com/2beens/blogposts/internal/cache"
	"github.com/2beens/blogposts/internal/config"
	"github.com/2beens/blogposts/internal/db"
	"github.com/2beens/blogposts/internal/middleware"
	"github.com/2beens/blogposts/internal/posts"
	"github.com/2beens/blogposts/internal/telemetry/metrics"
	"github.com/2beens/blogposts/internal/telemetry/tracing"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	mongoClient *mongo.Client
	dbPool      *pgxpool.Pool
	redisClient *redis.Client // nil when neither the cache nor the rate limiter needs it

	postsHandler   *posts.Handler
	authorsHandler *authors.Handler

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	HoneycombTracingEnabled bool
}

// NewServer opens the store and every other client the service needs. The
// returned handle owns them until GracefulShutdown.
func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	s := &Server{
		config: cfg,
	}

	var pgxpoolCollector prometheus.Collector
	if cfg.StoreBackend == config.StorePostgres {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			ConnString:     cfg.DatabaseURL,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		if err := db.EnsurePostgresSchema(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, err
		}
		s.dbPool = dbPool
		pgxpoolCollector = pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": dbPool.Config().ConnConfig.Database},
		)
	}

	s.promRegistry = metrics.SetupPrometheus(pgxpoolCollector)
	s.metricsManager = metrics.NewManager("blogposts", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	if cfg.CacheBackend == config.CacheRedis || cfg.WriteRateLimitPerMin > 0 {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "blogposts", s.redisClient)
	if err != nil {
		s.closeClients(ctx)
		return nil, err
	}
	s.otelShutdown = otelShutdown

	postsCache := newPostsCache(cfg, s.redisClient)

	switch cfg.StoreBackend {
	case config.StorePostgres:
		authorsRepo := authors.NewPostgresRepo(s.dbPool)
		s.authorsHandler = authors.NewHandler(authorsRepo)
		s.postsHandler = posts.NewHandler(
			posts.NewService(posts.NewPostgresRepo(s.dbPool), authorsRepo, postsCache, s.metricsManager),
		)
	default:
		mongoClient, mongoDB, err := db.NewMongoClient(ctx, db.NewMongoClientParams{
			URI:             cfg.DatabaseURL,
			DatabaseName:    cfg.DatabaseName,
			Timeout:         time.Duration(cfg.StoreTimeoutSec) * time.Second,
			CommandDuration: s.metricsManager.HistogramStoreCommand,
		})
		if err != nil {
			s.closeClients(ctx)
			return nil, fmt.Errorf("new mongo client: %w", err)
		}
		s.mongoClient = mongoClient

		authorsRepo := authors.NewRepo(mongoDB)
		if err := authorsRepo.EnsureIndexes(ctx); err != nil {
			log.Errorf("authors indexes: %s", err)
		}
		s.authorsHandler = authors.NewHandler(authorsRepo)
		s.postsHandler = posts.NewHandler(
			posts.NewService(posts.NewRepo(mongoDB), authorsRepo, postsCache, s.metricsManager),
		)
	}

	log.Infof("store backend: %s, cache backend: %s", cfg.StoreBackend, cfg.CacheBackend)

	return s, nil
}

func newPostsCache(cfg *config.Config, rdb *redis.Client) cache.Cache {
	ttl := time.Duration(cfg.CacheTTLSec) * time.Second
	switch cfg.CacheBackend {
	case config.CacheRedis:
		return cache.NewRedisCache(rdb, ttl)
	case config.CacheMemory:
		return cache.NewMemoryCache(cfg.MemoryCacheMiB, ttl)
	default:
		return cache.Nop{}
	}
}

// routerSetup returns the full handler chain. CORS wraps the router, so
// preflight requests are answered even for routes without an OPTIONS method.
func (s *Server) routerSetup() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("blogposts-router"))

	var postsWrite, authorsWrite []mux.MiddlewareFunc
	if s.config.WriteRateLimitPerMin > 0 && s.redisClient != nil {
		reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
		postsWrite = append(postsWrite, middleware.RateLimit(
			reqRateLimiter, "posts-write", s.config.WriteRateLimitPerMin, s.metricsManager,
		))
		authorsWrite = append(authorsWrite, middleware.RateLimit(
			reqRateLimiter, "authors-write", s.config.WriteRateLimitPerMin, s.metricsManager,
		))
	}

	s.postsHandler.SetupRoutes(r, postsWrite...)
	s.authorsHandler.SetupRoutes(r, authorsWrite...)

	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	return middleware.Cors(s.config.AllowedOrigins)(r)
}

func (s *Server) metricsRouterSetup() http.Handler {
	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	return metricsRouter
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: s.metricsRouterSetup(),
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// GracefulShutdown stops accepting requests, waits for the in-flight ones and
// then releases the store, redis and telemetry.
func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	err = multierr.Append(err, s.closeClients(ctx))

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

func (s *Server) closeClients(ctx context.Context) error {
	var err error

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.mongoClient != nil {
		log.Debugln("disconnecting mongo client ...")
		if disconnectErr := s.mongoClient.Disconnect(ctx); disconnectErr != nil {
			err = multierr.Append(err, fmt.Errorf("disconnect mongo: %w", disconnectErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
