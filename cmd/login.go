package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/api"
	"github.com/mirasocial/mira-client/internal/appstate"
	"github.com/mirasocial/mira-client/internal/config"
	"github.com/mirasocial/mira-client/internal/storage"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend and persist the session",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, client, err := buildClient()
	if err != nil {
		return err
	}
	sess, err := client.Login(context.Background(), loginEmail, loginPassword)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Printf("logged in as %s (%s)\n", sess.User.Username, cfg.APIBaseURL)
	return nil
}

// buildClient assembles a standalone API client over the persisted store, for
// one-shot commands that run without the daemon.
func buildClient() (*config.Config, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}
	state, err := appstate.New(store)
	if err != nil {
		return nil, nil, err
	}
	logger := zap.NewNop()
	if cfg.AppEnv == "development" {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, nil, fmt.Errorf("logger init: %w", err)
		}
	}
	return cfg, api.New(cfg.APIBaseURL, state, logger), nil
}
