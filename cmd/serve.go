package main

import (
	"context"

	"autoprint/internal/handlers"
	"autoprint/internal/repository"
	"autoprint/internal/repository/octoprint"
	"autoprint/internal/server"
	"autoprint/internal/service"

	"github.com/spf13/cobra"
)

const userAgent = "autoprint/1.0"

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local API against the configured device controller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// wire dependencies
	client := octoprint.New(octoprint.Options{
		BaseURL:   cfg.Controller.BaseURL,
		APIKey:    cfg.Controller.APIKey,
		Timeout:   cfg.Controller.Timeout,
		RetryMax:  cfg.Controller.RetryMax,
		UserAgent: userAgent,
		Logger:    log.Named("controller"),
	})
	repos := repository.NewRepository(client)
	services := service.NewService(repos, service.Options{
		PollInterval:   cfg.Poll.Interval,
		RequestTimeout: cfg.Controller.Timeout,
		Location:       loc,
		Auth: service.AuthOptions{
			Username:     cfg.Auth.Username,
			PasswordHash: cfg.Auth.PasswordHash,
			SigningKey:   cfg.Auth.SigningKey,
			TokenTTL:     cfg.Auth.TokenTTL,
		},
		Logger: log,
	})
	apiHandler := handlers.NewHandler(services, log.Named("http"), handlers.Options{
		AuthEnabled:    cfg.Auth.Enabled,
		StreamInterval: cfg.WS.Interval,
	})
	if !cfg.Auth.Enabled {
		log.Warnw("auth_disabled", "hint", "local API is open to anyone who can reach the port")
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infow("controller_configured", "base_url", cfg.Controller.BaseURL, "timezone", services.Clock.Location().String())
	go services.Warmup(ctx)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler.InitRoutes(), log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
	services.StopPolling()
	return nil
}
