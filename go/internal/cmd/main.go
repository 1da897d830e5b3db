package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mcdev12/draftpilot/go/internal/config"
)

var (
	configPath string
	logLevel   string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "draftpilot",
	Short: "Live fantasy football draft tracker with dynamic VORP recommendations",
	Long: `draftpilot follows a Sleeper draft as it happens and re-ranks the remaining
player pool after every pick using value over replacement adjusted for
scarcity, roster construction, draft timing and market value.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level = logLevel
		}
		cfg = loaded
		return setupLogger(cfg.Log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "draftpilot.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(watchCmd, recommendCmd, replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("draftpilot failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
