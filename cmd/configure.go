package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stockr-hq/stockr-cli/internal/auth"
	"github.com/stockr-hq/stockr-cli/internal/config"
	"github.com/stockr-hq/stockr-cli/internal/keyring"
)

// passwordReader abstracts terminal password input for testing.
type passwordReader interface {
	ReadPassword() (string, error)
	IsTerminal() bool
}

// terminalReader reads passwords from the terminal using golang.org/x/term.
type terminalReader struct {
	fd int
}

// newTerminalReader creates a reader for the given file descriptor.
func newTerminalReader(fd int) *terminalReader {
	return &terminalReader{fd: fd}
}

func (r *terminalReader) ReadPassword() (string, error) {
	password, err := term.ReadPassword(r.fd)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (r *terminalReader) IsTerminal() bool {
	return term.IsTerminal(r.fd)
}

// prompter abstracts interactive menu selection for testing.
type prompter interface {
	SelectOption(options []string) (int, error)
	ReadLine(prompt string) (string, error)
}

// terminalPrompter implements prompter using stdin.
type terminalPrompter struct {
	reader io.Reader
	writer io.Writer
}

func newTerminalPrompter(r io.Reader, w io.Writer) *terminalPrompter {
	return &terminalPrompter{reader: r, writer: w}
}

func (p *terminalPrompter) SelectOption(options []string) (int, error) {
	scanner := bufio.NewScanner(p.reader)
	for {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("no input")
		}
		input := strings.TrimSpace(scanner.Text())
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(options) {
			_, _ = fmt.Fprintf(p.writer, "Please enter a number between 1 and %d: ", len(options))
			continue
		}
		return idx - 1, nil // Convert to 0-indexed
	}
}

func (p *terminalPrompter) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.writer, prompt)
	scanner := bufio.NewScanner(p.reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// configureOptions holds dependencies for the configure command.
// This allows for dependency injection in tests.
type configureOptions struct {
	configPath     string
	store          keyring.Store
	passwordReader passwordReader
	prompt         prompter
}

// newConfigureCmd creates the configure command with the given options.
func newConfigureCmd(opts configureOptions) *cobra.Command {
	var portfolioID string

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure CLI credentials",
		Long: `Configure the CLI with your Stockr credentials.

You will be prompted to enter your refresh token securely.
Get your refresh token from: https://stockr.app/settings/tokens

Example:
  stockr configure
  stockr configure --portfolio YOUR_PORTFOLIO_ID`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, opts, portfolioID)
		},
	}

	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "Default portfolio id (optional)")

	// Don't show usage info on validation errors - just show the error
	cmd.SilenceUsage = true

	return cmd
}

// reconfigureMenuOptions defines the menu options when already configured.
var reconfigureMenuOptions = []string{
	"Set default portfolio",
	"Configure new refresh token",
	"View current configuration",
	"Clear refresh token",
}

func runConfigure(cmd *cobra.Command, opts configureOptions, portfolioID string) error {
	// Verify we're running in an interactive terminal
	if !opts.passwordReader.IsTerminal() {
		return fmt.Errorf("configure requires an interactive terminal\nRun this command directly in your terminal (not piped or in a script)")
	}

	// Check if already configured
	_, err := opts.store.Get(keyring.ServiceName, keyring.KeyRefreshToken)
	alreadyConfigured := err == nil

	if alreadyConfigured {
		return runReconfigureMenu(cmd, opts)
	}

	return runInitialSetup(cmd, opts, portfolioID)
}

// runReconfigureMenu shows the reconfigure menu when already configured.
func runReconfigureMenu(cmd *cobra.Command, opts configureOptions) error {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "CLI is already configured. What would you like to do?")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for i, opt := range reconfigureMenuOptions {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s\n", i+1, opt)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Select option: ")

	choice, err := opts.prompt.SelectOption(reconfigureMenuOptions)
	if err != nil {
		return fmt.Errorf("failed to read selection: %w", err)
	}

	switch choice {
	case 0: // Set default portfolio
		return runSetPortfolio(cmd, opts)
	case 1: // Configure new refresh token
		return runInitialSetup(cmd, opts, "")
	case 2: // View current configuration
		return runViewConfiguration(cmd, opts)
	case 3: // Clear refresh token
		return runClearToken(cmd, opts)
	default:
		return fmt.Errorf("invalid selection")
	}
}

// runInitialSetup handles the initial refresh token configuration.
func runInitialSetup(cmd *cobra.Command, opts configureOptions, portfolioID string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Prompt for refresh token
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Enter your refresh token: ")
	refreshToken, err := opts.passwordReader.ReadPassword()
	if err != nil {
		return fmt.Errorf("failed to read refresh token: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout()) // Print newline after hidden input

	if refreshToken == "" {
		return fmt.Errorf("refresh token cannot be empty")
	}

	// Validate the token by exchanging it for a credential
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := auth.Exchange(ctx, cfg.AuthBaseURL, refreshToken); err != nil {
		return fmt.Errorf("failed to validate refresh token: %w", err)
	}

	// Store the token in the keyring
	if err := opts.store.Set(keyring.ServiceName, keyring.KeyRefreshToken, refreshToken); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}

	if portfolioID == "" {
		// Offer portfolio selection if none was provided via flag
		portfolioID, err = opts.prompt.ReadLine("Default portfolio id (leave empty to skip): ")
		if err != nil {
			return fmt.Errorf("failed to read portfolio id: %w", err)
		}
	}
	if portfolioID != "" {
		cfg.PortfolioID = portfolioID
	}

	if err := config.Save(opts.configPath, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved successfully!")
	return nil
}

// runSetPortfolio updates the default portfolio id.
func runSetPortfolio(cmd *cobra.Command, opts configureOptions) error {
	portfolioID, err := opts.prompt.ReadLine("Default portfolio id: ")
	if err != nil {
		return fmt.Errorf("failed to read portfolio id: %w", err)
	}
	if portfolioID == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No portfolio set.")
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.PortfolioID = portfolioID

	if err := config.Save(opts.configPath, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default portfolio set to: %s\n", portfolioID)
	return nil
}

// runViewConfiguration displays the current configuration.
func runViewConfiguration(cmd *cobra.Command, opts configureOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Current Configuration:")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "----------------------")

	// Check if a refresh token is configured
	_, err = opts.store.Get(keyring.ServiceName, keyring.KeyRefreshToken)
	if err == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Refresh token: Configured")
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Refresh token: Not configured")
	}

	if cfg.PortfolioID != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default portfolio: %s\n", cfg.PortfolioID)
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Default portfolio: Not set")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "API base URL: %s\n", cfg.APIBaseURL)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Auth base URL: %s\n", cfg.AuthBaseURL)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Refresh interval: %d seconds\n", cfg.RefreshSeconds)

	return nil
}

// runClearToken removes the stored refresh token and the cached credential.
func runClearToken(cmd *cobra.Command, opts configureOptions) error {
	if err := opts.store.Delete(keyring.ServiceName, keyring.KeyRefreshToken); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	_ = auth.DeleteToken(auth.TokenCachePath())

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Refresh token cleared successfully.")
	return nil
}

func init() {
	// Create configure command with production dependencies
	configureCmd := newConfigureCmd(configureOptions{
		configPath:     config.ConfigPath(),
		store:          keyring.NewEnvStore(keyring.NewSystemStore()),
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stdout),
	})
	rootCmd.AddCommand(configureCmd)
}
