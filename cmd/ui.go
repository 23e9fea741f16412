package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stockr-hq/stockr-cli/internal/api"
	"github.com/stockr-hq/stockr-cli/internal/auth"
	"github.com/stockr-hq/stockr-cli/internal/config"
	"github.com/stockr-hq/stockr-cli/internal/logging"
	"github.com/stockr-hq/stockr-cli/internal/tui"
)

// newUICmd creates the ui command with the given options.
func newUICmd(opts clientOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Interactive portfolio dashboard",
		Long: `Launch an interactive full-screen dashboard for the configured portfolio.

The dashboard shows holdings with live prices and allocation, refreshes
automatically, and supports transactions:
  enter/m  Open the action menu for the selected holding
  s        Sell from the open menu
  a        Add a new asset
  r        Refresh prices
  R        Reload the whole portfolio
  q        Quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger := logging.New(config.ConfigDir(), GetDebugMode())

			// Sign-in runs in the background; the first API request waits on
			// the session for its credential.
			session := auth.NewSession()
			go session.Bootstrap(opts.store, cfg.AuthBaseURL)

			client := api.NewClient(cfg.APIBaseURL, session).WithLogger(logger)
			refresh := time.Duration(cfg.RefreshSeconds) * time.Second

			p := tea.NewProgram(
				tui.NewModel(client, logger, cfg.PortfolioID, refresh),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.SilenceUsage = true

	return cmd
}

func init() {
	rootCmd.AddCommand(newUICmd(defaultClientOptions()))
}
