package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/instagrab/pkg/client"
	"github.com/entrhq/instagrab/pkg/ui"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a session by logging in manually",
	Long:  `Open a browser on the Instagram login page, wait for a manual login, and store the captured session for the account.`,
	RunE:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	username := flagUsername
	if username == "" {
		entered, ok := ui.PromptUsername("Enter your Instagram username:")
		if !ok {
			fmt.Println("Canceled.")
			return nil
		}
		username = entered
	}

	fmt.Printf("Logging into account %q.\n", username)
	fmt.Println("A browser window will open shortly; please log in manually.")

	c, err := client.New(loginClientOptions(settings, username))
	if err != nil {
		return err
	}
	defer c.Close()

	if c.ManualLogin() {
		fmt.Printf("%s Login successful, session saved for %q.\n", ui.StatusBadge(true), username)
	} else {
		fmt.Printf("%s Login failed. Please try again.\n", ui.StatusBadge(false))
	}
	return nil
}
