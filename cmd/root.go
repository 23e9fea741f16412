package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

// jsonOutput controls whether output is formatted as JSON
var jsonOutput bool

// debugMode enables debug logging to a file under the config directory.
var debugMode bool

var rootCmd = &cobra.Command{
	Use:     "stockr",
	Short:   "Stockr portfolio CLI",
	Long:    `A CLI for tracking portfolio holdings, live valuations and transactions via the Stockr API.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write debug logs to the config directory")
}

// GetJSONMode returns whether JSON output mode is enabled.
func GetJSONMode() bool {
	return jsonOutput
}

// GetDebugMode returns whether debug logging is enabled.
func GetDebugMode() bool {
	return debugMode
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
