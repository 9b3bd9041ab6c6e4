package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campsite/internal/app/commands"
	adminapp "campsite/internal/app/handlers/admin"
	availabilityapp "campsite/internal/app/handlers/availability"
	bookingapp "campsite/internal/app/handlers/booking"
	deadlineapp "campsite/internal/app/handlers/deadline"
	refundapp "campsite/internal/app/handlers/refund"
	"campsite/internal/app/middleware"
	appoutbox "campsite/internal/app/outbox"
	"campsite/internal/app/queries"
	"campsite/internal/app/uow"
	domainsite "campsite/internal/domain/site"
	"campsite/internal/infra/broker/kafka"
	"campsite/internal/infra/catalog"
	"campsite/internal/infra/config"
	mongodb "campsite/internal/infra/db/mongo"
	ginserver "campsite/internal/infra/http/gin"
	"campsite/internal/infra/obs"
	infraoutbox "campsite/internal/infra/outbox"
	"campsite/internal/infra/pricing"
	"campsite/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	sites, err := catalog.LoadSites(cfg.SitesPath)
	if err != nil {
		logger.Error("site catalogue load failed", "error", err, "path", cfg.SitesPath)
		os.Exit(1)
	}

	engine, err := buildPricingEngine(cfg)
	if err != nil {
		logger.Error("pricing engine init failed", "error", err)
		os.Exit(1)
	}

	backend, err := buildStorage(cfg, sites)
	if err != nil {
		logger.Error("storage init failed", "error", err, "mode", cfg.StorageMode)
		os.Exit(1)
	}

	app := buildApplication(cfg, logger, engine, backend)
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: backend.ready,
	}, app.handlers)

	if backend.outboxWorker != nil {
		go func() {
			if err := backend.outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}
	go runSweepLoop(ctx, cfg.SweepInterval, app.commands, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// storageBackend bundles the mode-dependent pieces: the unit-of-work factory,
// the outbox the handlers record into, and the relay worker when Kafka is
// configured.
type storageBackend struct {
	uowFactory   uow.UoWFactory
	outbox       appoutbox.Outbox
	idempotency  middleware.IdempotencyStore
	outboxWorker *infraoutbox.Worker
	ready        func() error
}

func buildStorage(cfg config.Config, sites []*domainsite.Site) (storageBackend, error) {
	if cfg.StorageMode == "memory" {
		store := memory.NewStore(sites)
		return storageBackend{
			uowFactory:  memory.Factory{Store: store},
			outbox:      memory.NewOutbox(),
			idempotency: memory.NewIdempotencyStore(),
			ready:       func() error { return nil },
		}, nil
	}

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storageBackend{}, err
	}
	siteRepo := memory.NewSiteRepo(memory.NewStore(sites))
	outboxStore := infraoutbox.NewStore(client.DB)
	backend := storageBackend{
		uowFactory:  mongodb.Factory{DB: client.DB, Sites: siteRepo},
		outbox:      outboxStore,
		idempotency: mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL),
		ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		},
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return storageBackend{}, err
		}
		backend.outboxWorker = &infraoutbox.Worker{
			Store:       outboxStore,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
	}
	return backend, nil
}

func buildPricingEngine(cfg config.Config) (*pricing.StaticEngine, error) {
	rates, err := pricing.LoadConfig(cfg.PricingPath)
	if err != nil {
		return nil, err
	}
	holidays, err := pricing.LoadHolidays(cfg.HolidaysPath)
	if err != nil {
		return nil, err
	}
	pol, err := pricing.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}
	openRule, err := pricing.LoadOpenRule(cfg.OpenRulePath)
	if err != nil {
		return nil, err
	}
	return pricing.NewStaticEngine(pricing.Options{
		Config:   rates,
		Holidays: holidays,
		Policy:   pol,
		OpenRule: openRule,
	})
}

type application struct {
	handlers ginserver.Handlers
	commands commands.Bus
	queries  queries.Bus
}

func buildApplication(cfg config.Config, logger *slog.Logger, engine *pricing.StaticEngine, backend storageBackend) application {
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestReservationCommand{}.Key(), &bookingapp.RequestReservationHandler{
		UoWFactory: backend.uowFactory,
		Pricing:    engine,
		Policy:     engine,
		Outbox:     backend.outbox,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelPendingCommand{}.Key(), &bookingapp.CancelPendingHandler{
		UoWFactory: backend.uowFactory,
		Outbox:     backend.outbox,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, refundapp.RequestCancelCommand{}.Key(), &refundapp.RequestCancelHandler{
		UoWFactory: backend.uowFactory,
		Policy:     engine,
		Outbox:     backend.outbox,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, refundapp.CompleteRefundCommand{}.Key(), &refundapp.CompleteRefundHandler{
		UoWFactory: backend.uowFactory,
		Outbox:     backend.outbox,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, adminapp.ConfirmDepositCommand{}.Key(), &adminapp.ConfirmDepositHandler{
		UoWFactory: backend.uowFactory,
		Outbox:     backend.outbox,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, adminapp.ModifyReservationCommand{}.Key(), &adminapp.ModifyReservationHandler{
		UoWFactory: backend.uowFactory,
		Pricing:    engine,
		Outbox:     backend.outbox,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, adminapp.CancelReservationCommand{}.Key(), &adminapp.CancelReservationHandler{
		UoWFactory: backend.uowFactory,
		Outbox:     backend.outbox,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, adminapp.BlockSiteCommand{}.Key(), &adminapp.BlockSiteHandler{
		UoWFactory: backend.uowFactory,
		Outbox:     backend.outbox,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, adminapp.UnblockSiteCommand{}.Key(), &adminapp.UnblockSiteHandler{
		UoWFactory: backend.uowFactory,
		Outbox:     backend.outbox,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, deadlineapp.SweepDeadlinesCommand{}.Key(), &deadlineapp.SweepDeadlinesHandler{
		UoWFactory: backend.uowFactory,
		Policy:     engine,
		Outbox:     backend.outbox,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, deadlineapp.CompleteStaysCommand{}.Key(), &deadlineapp.CompleteStaysHandler{
		UoWFactory: backend.uowFactory,
		Outbox:     backend.outbox,
		Encoder:    encoder,
		Logger:     logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, bookingapp.ListMyReservationsQuery{}.Key(), &bookingapp.ListMyReservationsHandler{
		UoWFactory: backend.uowFactory,
	})
	queries.RegisterHandler(queryBus, availabilityapp.GetPublicAvailabilityQuery{}.Key(), &availabilityapp.GetPublicAvailabilityHandler{
		UoWFactory: backend.uowFactory,
	})
	queries.RegisterHandler(queryBus, availabilityapp.MaxBlockDurationQuery{}.Key(), &availabilityapp.MaxBlockDurationHandler{
		UoWFactory: backend.uowFactory,
	})
	queries.RegisterHandler(queryBus, deadlineapp.ListDeadlinesQuery{}.Key(), &deadlineapp.ListDeadlinesHandler{
		UoWFactory: backend.uowFactory,
		Policy:     engine,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(backend.idempotency, nil),
		middleware.Validation(),
		middleware.Transaction(backend.uowFactory, nil),
		middleware.OutboxFlush(backend.outbox),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	return application{
		handlers: ginserver.Handlers{
			Reservation: ginserver.ReservationHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
			},
			Availability: ginserver.AvailabilityHandler{
				Queries: queryBusWithMiddleware,
			},
			Admin: ginserver.AdminHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
			},
		},
		commands: commandBusWithMiddleware,
		queries:  queryBusWithMiddleware,
	}
}

// runSweepLoop drives the deposit-deadline and stay-completion sweeps. Both
// commands are idempotent, so a missed or doubled tick is harmless.
func runSweepLoop(ctx context.Context, interval time.Duration, bus commands.Bus, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := commands.Dispatch[deadlineapp.SweepDeadlinesCommand, *deadlineapp.SweepDeadlinesResult](ctx, bus, deadlineapp.SweepDeadlinesCommand{}); err != nil {
				logger.Warn("deadline sweep failed", "error", err)
			}
			if _, err := commands.Dispatch[deadlineapp.CompleteStaysCommand, *deadlineapp.CompleteStaysResult](ctx, bus, deadlineapp.CompleteStaysCommand{}); err != nil {
				logger.Warn("stay completion sweep failed", "error", err)
			}
		}
	}
}
