package cmd

import (
	"fmt"

	"github.com/stockr-hq/stockr-cli/internal/api"
	"github.com/stockr-hq/stockr-cli/internal/auth"
	"github.com/stockr-hq/stockr-cli/internal/config"
	"github.com/stockr-hq/stockr-cli/internal/keyring"
)

// clientOptions holds the dependencies shared by commands that talk to the
// API. This allows for dependency injection in tests.
type clientOptions struct {
	configPath string
	store      keyring.Store
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		configPath: config.ConfigPath(),
		store:      keyring.NewEnvStore(keyring.NewSystemStore()),
	}
}

// newAPIClient loads the config, restores the stored credential and builds an
// authenticated API client. One-shot commands bootstrap synchronously; only
// the interactive UI signs in in the background.
func newAPIClient(opts clientOptions) (*api.Client, *config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	session := auth.NewSession()
	session.Bootstrap(opts.store, cfg.AuthBaseURL)
	if identity, _ := session.Current(); identity == nil {
		return nil, nil, fmt.Errorf("not configured. Run: stockr configure")
	}

	return api.NewClient(cfg.APIBaseURL, session), cfg, nil
}
