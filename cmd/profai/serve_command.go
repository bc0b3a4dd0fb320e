package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/profai/profai-backend/internal/config"
	h "github.com/profai/profai-backend/internal/http"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/internal/repo/sqlite"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ProfAI backend server",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg := config.Load()

			log, err := logging.New(cfg.LogMode, cfg.LogPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := h.NewRouter(cfg, store, log)
			if err != nil {
				return err
			}
			log.Info("server starting", "port", cfg.Port, "dev_fake", cfg.DevFake)
			return r.Run(":" + cfg.Port)
		},
	}
}
