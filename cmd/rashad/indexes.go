package main

import (
	"github.com/spf13/cobra"

	"github.com/rashad-agri/marketplace/internal/infrastructure/db/mongo"
	"github.com/rashad-agri/marketplace/pkg/logger"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes of every collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := logger.Component("indexes")
		ctx := cmd.Context()

		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(ctx) }()

		n, err := mongo.EnsureIndexes(ctx, db)
		if err != nil {
			return err
		}
		log.Info().Int("collections", n).Str("database", cfg.Mongo.Database).Msg("indexes ensured")
		return nil
	},
}
