package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tendril",
	Short: "Tendril runs tool-augmented chat agents with per-thread memory",
	Long: `Tendril executes small agent graphs: a plain conversation loop and a
tool loop that lets the model call get_weather, define_word and web_search.
Every conversation lives in a thread whose history is persisted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		return config.LoadDotEnv(envFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the config file (default tendril.yaml when present)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file loaded before reading the config")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the config file named by --config and applies --debug.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// buildApp loads the config and assembles the agent. Offline commands never
// call the model and skip the credential check.
func buildApp(cmd *cobra.Command, mode string, offline bool) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewLogger(os.Stderr, cfg.Log)
	if err != nil {
		return nil, err
	}

	opts := cli.Options{Mode: mode, Logger: logger}
	if offline {
		opts.Model = cli.OfflineModel()
	}
	return cli.Build(cmd.Context(), cfg, opts)
}
