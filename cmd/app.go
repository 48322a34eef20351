package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaharia-lab/jobportal/internal/api"
	"github.com/shaharia-lab/jobportal/internal/chat"
	"github.com/shaharia-lab/jobportal/internal/config"
	"github.com/shaharia-lab/jobportal/internal/database"
	"github.com/shaharia-lab/jobportal/internal/eventbus"
	"github.com/shaharia-lab/jobportal/internal/notification"
	"github.com/shaharia-lab/jobportal/internal/scheduler"
	"github.com/shaharia-lab/jobportal/internal/server"
	"github.com/shaharia-lab/jobportal/internal/service"
	"github.com/shaharia-lab/jobportal/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// run wires the application and serves until ctx is canceled. It returns
// early only if the listener cannot be bound.
func run(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) error {
	retries, err := scheduler.New(log)
	if err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}

	supervisor := database.NewSupervisor(database.SupervisorConfig{
		URI:           cfg.MongoURI,
		Database:      cfg.MongoDatabase,
		RetryInterval: cfg.DBRetryInterval,
		Connector:     database.NewMongoConnector(cfg.DBConnectTimeout),
		Scheduler:     retries,
		Logger:        log,
	})
	notificationLog := storage.NewMongoNotificationStore(supervisor)

	bus := eventbus.New(eventbus.Options{Logger: log})
	dispatcher := notification.NewDispatcher(notification.DispatcherConfig{
		Transport: notification.NewSMTPTransport(notification.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.EmailUser,
			Password:   cfg.EmailPass,
			FromAddr:   cfg.SenderAddress(),
			Encryption: cfg.SMTPEncryption,
			Timeout:    cfg.EmailSendTimeout,
		}),
		Store:       notificationLog,
		Logger:      log,
		SendTimeout: cfg.EmailSendTimeout,
	})
	bus.Subscribe(notification.NewDecisionHandler(dispatcher, log).Handle)

	// Never awaited: the server comes up whether or not the database does.
	go supervisor.Connect(ctx)

	hub := chat.NewHub(chat.DefaultOptions, log)
	go hub.Run()
	chatHandler := chat.NewHandler(hub, cfg.AllowedOrigins(), log)

	srv := server.New(server.Config{
		Addr:           cfg.ListenAddr(),
		AllowedOrigins: cfg.AllowedOrigins(),
		Collaborators: []api.Collaborator{
			api.NewAdminRoutes(service.NewNotificationService(notificationLog), log).Collaborator(),
			api.NewHRRoutes(service.NewDecisionService(bus, log), log).Collaborator(),
			chatHandler.Collaborator(),
		},
		Socket:   chatHandler.ServeWS,
		Database: supervisor,
		Logger:   log,
	})

	runErr := srv.Run(ctx)

	if err := hub.Shutdown(shutdownTimeout); err != nil {
		log.Warn("chat shutdown incomplete", "error", err)
	}
	if err := retries.Stop(); err != nil {
		log.Warn("scheduler shutdown failed", "error", err)
	}
	bus.Close()

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := supervisor.Close(closeCtx); err != nil {
		log.Warn("database disconnect failed", "error", err)
	}

	return runErr
}
