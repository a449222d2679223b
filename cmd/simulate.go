package main

import (
	"context"

	"autoprint/internal/server"
	"autoprint/internal/simulator"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Run an in-memory device controller speaking the plugin API",
		Long: `Runs a simulated device controller on simulator.port. Point
controller.base_url at it to try the scheduler without hardware.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			sim := simulator.New(simulator.Options{
				Cooldown:     cfg.Simulator.Cooldown,
				PrintSpeedup: cfg.Simulator.PrintSpeedup,
				Logger:       log.Named("simulator"),
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go sim.Run(ctx, cfg.Simulator.Tick)

			gin.SetMode(gin.ReleaseMode)
			srv := &server.Server{}
			runHTTPServer(srv, cfg.Simulator.Port, sim.Routes(cfg.Controller.APIKey), log)

			waitForShutdown(cancel, srv, log)
			return nil
		},
	}
}
