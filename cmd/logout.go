package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate the persisted session",
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	_, client, err := buildClient()
	if err != nil {
		return err
	}
	if err := client.Logout(context.Background()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Println("logged out")
	return nil
}
