// Package commands implements the CLI commands for vocabharvest.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "vocabharvest",
	Short: "Export a Preply vocabulary list as CSV",
	Long: `vocabharvest opens your Preply vocabulary page, clicks "Show more" until
every card is loaded, and turns the cards into a two-column CSV
(Spanish, English) ready for flashcard import.

The CSV is written to stdout (or -o) and can also be shown in a panel
inside the page or in the terminal, with a copy-to-clipboard button.

Examples:
  # Reuse a Chrome profile that is already logged in, show the panel in the page
  vocabharvest scrape -u "https://preply.com/en/vocabulary" \
      --user-data-dir ~/.config/vocabharvest-chrome --headful

  # Harvest a page saved from the browser after expanding it
  vocabharvest scrape --file vocabulary.html -o words.csv

  # Check a CSV before importing it
  vocabharvest check words.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version.String(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log_json"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.vocabharvest.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".vocabharvest")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. VOCABHARVEST_USER_DATA_DIR
	viper.SetEnvPrefix("VOCABHARVEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
