package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mira-client",
	Short: "Mira client daemon: session, posting, live streaming, notifications",
	Long:  `Local companion daemon for the Mira social backend. Commands: run, login, logout.`,
	RunE:  runDaemon, // default: run the daemon (same as "mira-client run")
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}
