package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/misterg2020/bistro-chat-connect/internal/cart"
	"github.com/misterg2020/bistro-chat-connect/internal/kitchen"
	"github.com/misterg2020/bistro-chat-connect/internal/menu"
	"github.com/misterg2020/bistro-chat-connect/internal/mongo"
	"github.com/misterg2020/bistro-chat-connect/internal/order"
	"github.com/misterg2020/bistro-chat-connect/internal/session"
	"github.com/misterg2020/bistro-chat-connect/internal/tables"
	"github.com/misterg2020/bistro-chat-connect/pkg"
)

const (
	appNamespace = "BISTRO"
	appName      = "bistro"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	dishRepo := mongo.NewDishRepo(db, logger)
	tableRepo := mongo.NewTableRepo(db, logger)
	orderRepo := mongo.NewOrderRepo(db, logger)

	if err := baseRepo.EnsureIndexes(ctx, dishRepo, tableRepo, orderRepo); err != nil {
		log.Fatalf("%s(%s) cannot create indexes: %v", appName, appVersion, err)
	}

	var sessions session.Store
	redisURL := config.GetStringOrDef("cache.redis.url", "")
	if redisURL != "" {
		redisStore, err := session.NewRedisStore(redisURL, session.DefaultTTL)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to Redis: %v", appName, appVersion, err)
		}
		if err := redisStore.Ping(ctx); err != nil {
			log.Fatalf("%s(%s) cannot reach Redis: %v", appName, appVersion, err)
		}
		sessions = redisStore
		logger.Info("Using Redis session store")
	} else {
		sessions = session.NewMemoryStore()
		logger.Info("Using in-memory session store")
	}

	carts := cart.NewStore(sessions)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	stream := order.NewEventStream(logger)
	board := kitchen.NewBoardCache(orderRepo, logger)
	eventSubscriber := order.NewEventSubscriber(sub, stream, board, logger)

	sessionTTL := kitchen.DefaultSessionTTL
	if minutes := config.GetStringOrDef("kitchen.session_ttl_minutes", ""); minutes != "" {
		parsed, err := strconv.Atoi(minutes)
		if err != nil || parsed <= 0 {
			log.Fatalf("%s(%s) invalid kitchen.session_ttl_minutes %q", appName, appVersion, minutes)
		}
		sessionTTL = time.Duration(parsed) * time.Minute
	}
	tokens := kitchen.NewTokenStore(sessionTTL)

	kitchenPassword, _ := config.GetString("kitchen.password")
	kitchenHandler := kitchen.NewHandler(tokens, board, stream, kitchenPassword, config, logger)

	qrEndpoint := config.GetStringOrDef("qr.endpoint", tables.DefaultQREndpoint)
	baseURL := config.GetStringOrDef("app.base_url", "http://localhost:8080")
	exporter := tables.NewQRExporter(qrEndpoint, baseURL, logger)

	menuHandler := menu.NewHandler(dishRepo, config, logger)
	tablesHandler := tables.NewHandler(tableRepo, exporter, config, logger)
	tablesHandler.UseGate(kitchenHandler.RequireSession)
	cartHandler := cart.NewHandler(carts, config, logger)

	orderHandler := order.NewHandler(order.HandlerDeps{
		OrderRepo: orderRepo,
		TableRepo: tableRepo,
		Carts:     carts,
		Sessions:  sessions,
		Publisher: pub,
		Stream:    stream,
		Gate:      kitchenHandler.RequireSession,
	}, config, logger)

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	subLifecycle := apt.LifecycleHooks{
		OnStart: eventSubscriber.Start,
		OnStop: func(context.Context) error {
			return sub.Close()
		},
	}

	boardLifecycle := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			board.Warm(ctx)
			return nil
		},
	}

	cleanupLifecycle := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			tokens.StartCleanup(ctx, 10*time.Minute)
			return nil
		},
	}

	// Setup demo seeding if enabled
	demoEnabled, _ := config.GetString("seeding.demo")
	var seedHooks apt.LifecycleHooks
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled")
		seedHooks = apt.LifecycleHooks{
			OnStart: func(context.Context) error {
				if err := menu.SeedingFunc(appName, baseRepo.GetDatabase, logger)(seedCtx); err != nil {
					return err
				}
				return tables.SeedingFunc(appName, baseRepo.GetDatabase, logger)(seedCtx)
			},
			OnStop: func(context.Context) error {
				cancelSeeds()
				return nil
			},
		}
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
		publisherLifecycle,
		subLifecycle,
		boardLifecycle,
		cleanupLifecycle,
	}
	if demoEnabled == "true" {
		lifecycles = append(lifecycles, seedHooks)
	}
	if redisStore, ok := sessions.(*session.RedisStore); ok {
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStop: func(context.Context) error {
				return redisStore.Close()
			},
		})
	}

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", menuHandler, tablesHandler, cartHandler, orderHandler, kitchenHandler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
