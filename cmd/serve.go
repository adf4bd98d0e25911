package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zzenonn/zhost/internal/transport/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve hosts over HTTP for local testing",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a := newApp(ctx)
		handler := httpserver.NewHandler(a.Router, a.Metrics.Handler())

		addr := cfg.ListenAddr
		if cmd.Flags().Changed("listen_addr") {
			addr, _ = cmd.Flags().GetString("listen_addr")
		}

		err := httpserver.Serve(ctx, addr, handler.Routes())
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().String("listen_addr", ":8080", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}
