package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"restaurantportal/internal/blobstore"
	"restaurantportal/internal/cart"
	"restaurantportal/internal/config"
	"restaurantportal/internal/database"
	"restaurantportal/internal/events"
	"restaurantportal/internal/handlers"
	"restaurantportal/internal/memstore"
	"restaurantportal/internal/menu"
	"restaurantportal/internal/orders"
)

type serveOptions struct {
	InMemory bool
	Port     string
}

func NewServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			cfg := config.AppEnv
			if opts.Port != "" {
				cfg.Port = opts.Port
			}
			return runServe(cmd.Context(), cfg, opts.InMemory)
		},
	}

	cmd.Flags().BoolVar(&opts.InMemory, "in-memory", false, "keep data in process memory instead of MongoDB")
	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "listen port (overrides PORT)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config, inMemory bool) error {
	if err := validateServeConfig(cfg, inMemory); err != nil {
		return err
	}

	deps, closers, err := buildDependencies(cfg, inMemory)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("[SERVER] [INFO] listening on", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("[SERVER] [INFO] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func validateServeConfig(cfg config.Config, inMemory bool) error {
	if inMemory {
		if cfg.JWTSecret == "" {
			return fmt.Errorf("ENV %s is required", "JWT_SECRET")
		}
		return nil
	}
	return cfg.Validate()
}

// buildDependencies picks the storage backends from cfg. Closers are
// returned even on error so partially opened clients get released.
func buildDependencies(cfg config.Config, inMemory bool) (handlers.Dependencies, []func(), error) {
	var closers []func()

	var (
		menuRepo    menu.Repository
		orderStore  orders.Store
		restaurants handlers.RestaurantStore
		ping        func(ctx context.Context) error
	)

	if inMemory {
		log.Println("[SERVER] [WARN] running with in-memory storage; data is lost on exit")
		menuRepo = memstore.NewMenu()
		orderStore = memstore.NewOrders()
		restaurants = memstore.NewRestaurants()
	} else {
		client, err := database.Connect(cfg.MongoURI)
		if err != nil {
			return handlers.Dependencies{}, closers, fmt.Errorf("connect mongo: %w", err)
		}
		closers = append(closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Println("[SERVER] [WARN] mongo disconnect:", err)
			}
		})

		db := client.Database(cfg.DBName)
		log.Println("MongoDB connected to:", db.Name())

		if err := database.EnsureIndexes(db); err != nil {
			log.Printf("[SERVER] [WARN] index setup: %v", err)
		}

		menuRepo = database.NewMenuRepository(db)
		orderStore = database.NewOrderStore(db)
		restaurants = database.NewRestaurantRepository(db)
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}

	var carts cart.Storage = cart.NewMemoryStorage()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, func() { _ = client.Close() })
		carts = cart.NewRedisStorage(client, cfg.CartTTL)
		log.Println("[SERVER] [INFO] carts stored in redis at", cfg.RedisAddr)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaOrdersTopic))
		closers = append(closers, func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Println("[SERVER] [WARN] kafka writer close:", err)
			}
		})
		publisher = kafkaPublisher
		log.Println("[SERVER] [INFO] order events published to", cfg.KafkaOrdersTopic)
	}

	blobs := blobstore.NewResizing(blobstore.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL), 0)

	deps := handlers.Dependencies{
		Menus:       menu.NewService(menuRepo, blobs),
		MenuQueries: menu.NewQueryService(menuRepo),
		Orders: orders.NewService(orderStore, publisher, orders.Options{
			Transactions: cfg.MongoTransactions && !inMemory,
			WriteRetries: cfg.OrderWriteRetries,
			RetryDelay:   100 * time.Millisecond,
		}),
		Carts:          carts,
		Restaurants:    restaurants,
		JWTSecret:      cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
		PublicBaseURL:  cfg.PublicBaseURL,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		UploadDir:      cfg.UploadDir,
		UploadBaseURL:  cfg.UploadBaseURL,
		Ping:           ping,
	}
	return deps, closers, nil
}
