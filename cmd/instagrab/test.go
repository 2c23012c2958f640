package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/instagrab/pkg/client"
	"github.com/entrhq/instagrab/pkg/session"
	"github.com/entrhq/instagrab/pkg/ui"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test whether a stored session is still valid",
	Long:  `Check the stored session file for an account against the cookie expiry, without opening a browser. Without --username an interactive picker lists the stored sessions.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	username := flagUsername
	if username == "" {
		store, err := openStore(settings)
		if err != nil {
			return err
		}
		infos := store.List()
		if len(infos) == 0 {
			fmt.Println("No sessions found to test.")
			return nil
		}
		picked, ok := ui.PickSession("Test which session?", infos)
		if !ok {
			fmt.Println("Canceled.")
			return nil
		}
		username = session.UsernameFromFileName(picked.FileName)
	}

	display := username
	if display == "" {
		display = "default"
	}

	c, err := client.New(loginClientOptions(settings, username))
	if err != nil {
		return err
	}
	defer c.Close()

	if c.LoadSession() {
		fmt.Printf("%s Session %q is valid.\n", ui.StatusBadge(true), display)
		return nil
	}

	fmt.Printf("%s Session %q is invalid or expired.\n", ui.StatusBadge(false), display)
	if !ui.Confirm(fmt.Sprintf("Log in again as %q now?", display)) {
		return nil
	}

	fmt.Println("A browser window will open shortly; please log in manually.")
	if c.ManualLogin() {
		fmt.Printf("%s Login successful, session saved for %q.\n", ui.StatusBadge(true), display)
	} else {
		fmt.Printf("%s Login failed. Please try again.\n", ui.StatusBadge(false))
	}
	return nil
}
