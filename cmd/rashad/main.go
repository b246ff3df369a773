// Command rashad runs the Rashad agricultural marketplace server.
//
//	rashad serve     start the HTTP server
//	rashad indexes   create the MongoDB indexes and exit
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rashad-agri/marketplace/internal/infrastructure/config"
	"github.com/rashad-agri/marketplace/pkg/logger"
)

var (
	envFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "rashad",
	Short:         "Rashad agricultural marketplace server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// A missing .env is fine; the process environment still applies.
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("load %s: %w", envFile, err)
		}

		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return err
		}

		logger.Init(logger.Options{
			Level:  cfg.LogLevel,
			Pretty: cfg.IsDevelopment(),
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, indexesCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "rashad:", err)
		os.Exit(1)
	}
}
