package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"deconflict-sim/internal/admin"
	"deconflict-sim/internal/config"
	"deconflict-sim/internal/engine"
	"deconflict-sim/internal/logging"
	"deconflict-sim/internal/store"
)

var (
	serveConfigPath string
	serveSchemaPath string
	serveAddr       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the deconfliction API server",
	Long:  "serve exposes scenario loading, drone CRUD, conflict analysis, and solution endpoints over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()

		cfg := config.Default()
		if serveConfigPath != "" {
			loaded, err := config.Load(serveConfigPath, serveSchemaPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if serveAddr != "" {
			cfg.ListenAddr = serveAddr
		}

		st := store.NewDroneStore()
		eng := engine.New(cfg.Engine)
		srv := admin.NewServer(st, eng, nil)

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		errCh := make(chan error, 1)
		go func() {
			log.Info("API server listening", "addr", cfg.ListenAddr)
			if err := srv.Start(ctx, cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-sigs:
		}

		cancel()
		log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to configuration YAML (defaults apply when empty)")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "schemas/deconflict.cue", "Path to CUE schema file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Bind address override (e.g. :8080)")
}
