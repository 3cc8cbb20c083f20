package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"caixinha/bot"
	"caixinha/config"
	"caixinha/database"
	"caixinha/events"
	"caixinha/repository"
	"caixinha/service"
	"caixinha/transport"
)

// Run initializes and starts the application. Initialization is strictly
// ordered: storage must be connected and verified before the webhook
// listener accepts a single message.
func Run(ctx context.Context) error {
	cfg := config.Get()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	log.Info("Starting caixinha bot...")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	userService := service.NewUserService(uowFactory)
	ledgerService := service.NewLedgerService(uowFactory)

	// Committed ledger mutations go to the audit log
	eventBus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		if change, ok := event.(events.BalanceChangeEvent); ok {
			log.WithFields(log.Fields{
				"externalID": change.ExternalID,
				"kind":       change.Kind,
				"change":     change.ChangeAmount,
				"balance":    change.NewBalance,
			}).Info("Balance changed")
		}
	})
	eventBus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		if created, ok := event.(events.UserCreatedEvent); ok {
			log.WithFields(log.Fields{
				"externalID": created.ExternalID,
			}).Info("User created")
		}
	})

	dispatcher := bot.NewDispatcher(userService, ledgerService)
	sender := transport.NewHTTPSender(cfg.SendURL)
	server := transport.NewServer(cfg.ListenAddr, dispatcher, sender)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Infof("Bot is running in %s mode...", cfg.Environment)

	select {
	case err := <-serverErr:
		db.Close()
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down webhook server: %v", err)
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}
