package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/orderkit/internal/config"
	"github.com/dshills/orderkit/internal/events"
	"github.com/dshills/orderkit/internal/ordering"
	"github.com/dshills/orderkit/internal/repository"
	"github.com/dshills/orderkit/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version information and exit")
		configPath  = flag.String("config", "", "path to a YAML config file")
		demo        = flag.Bool("demo", false, "store a sample order and publish its events")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("orderkit\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orderkit: %v\n", err)
		os.Exit(2)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *demo); err != nil {
		logger.Error("orderkit failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, demo bool) error {
	logger.Info("orderkit starting",
		"version", version,
		"build_mode", storage.BuildMode,
		"driver", storage.DriverName,
		"db_path", cfg.Storage.Path)

	store, err := storage.NewSQLiteStorage(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	dispatcher := events.NewDispatcher(events.WithLogger(logger))
	registerHandlers(dispatcher, logger)

	var repo repository.OrderRepository = repository.New(store)
	if cfg.Cache.Size > 0 {
		cached, err := repository.NewCached(repo, cfg.Cache.Size)
		if err != nil {
			return err
		}
		repo = cached
	}
	service := ordering.New(repo, dispatcher, ordering.WithLogger(logger))

	if demo {
		if err := runDemo(ctx, store, dispatcher, service); err != nil {
			return err
		}
	}

	orders, err := store.CountOrders(ctx)
	if err != nil {
		return err
	}
	logger.Info("orderkit ready", "orders", orders, "event_types", dispatcher.EventTypes())
	return nil
}

func registerHandlers(d *events.Dispatcher, logger *slog.Logger) {
	d.Register(events.CustomerCreatedType, &events.CustomerCreatedLogger{Logger: logger, Name: "console-1"})
	d.Register(events.CustomerCreatedType, &events.CustomerCreatedLogger{Logger: logger, Name: "console-2"})
	d.Register(events.CustomerAddressChangedType, &events.CustomerAddressChangedLogger{Logger: logger})
	d.Register(events.ProductCreatedType, &events.ProductCreatedMailer{
		Sender: &events.RetryMailSender{
			Next:   &events.LogMailSender{Logger: logger},
			Config: events.DefaultRetryConfig(),
		},
		To: "catalog@example.com",
	})

	orderLogger := &events.OrderLogger{Logger: logger}
	d.Register(events.OrderPlacedType, orderLogger)
	d.Register(events.OrderCustomerChangedType, orderLogger)
	d.Register(events.OrderItemsReplacedType, orderLogger)
}
