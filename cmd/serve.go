package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"study-assistant/internal/server"
	"study-assistant/internal/study"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		assistant, err := study.New(ctx, cfg)
		if err != nil {
			return err
		}
		return server.New(assistant, cfg.Server).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides the config")
}
