package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var apikeyDescription string

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys",
}

var apikeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key and print it once",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyCreate,
}

func init() {
	apikeyCreateCmd.Flags().StringVar(&apikeyDescription, "description", "", "what the key is for")
	apikeyCmd.AddCommand(apikeyCreateCmd)
}

func runAPIKeyCreate(cmd *cobra.Command, _ []string) error {
	cfg, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	a, err := openApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	key, err := a.keys.Create(cmd.Context(), apikeyDescription)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), key)
	if !cfg.Auth.Enabled {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: auth is disabled; set auth.enabled or ACCOMPLISH_AUTH_ENABLED=true to require keys")
	}
	return nil
}
