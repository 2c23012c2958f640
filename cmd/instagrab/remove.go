package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/instagrab/pkg/session"
	"github.com/entrhq/instagrab/pkg/ui"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a stored session",
	Long:  `Delete the session file for an account. Without --username an interactive picker lists the stored sessions.`,
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(settings)
	if err != nil {
		return err
	}

	username := flagUsername
	if username == "" {
		infos := store.List()
		if len(infos) == 0 {
			fmt.Println("No sessions found to remove.")
			return nil
		}
		picked, ok := ui.PickSession("Remove which session?", infos)
		if !ok {
			fmt.Println("Canceled.")
			return nil
		}
		// Target the picked file, not the display name, which may come
		// from metadata and differ from the file's username token.
		username = session.UsernameFromFileName(picked.FileName)
	}

	display := username
	if display == "" {
		display = "default"
	}

	if !ui.Confirm(fmt.Sprintf("Remove session %q?", display)) {
		fmt.Println("Remove operation canceled.")
		return nil
	}

	if store.Remove(username) {
		fmt.Printf("Session %q removed.\n", display)
	} else {
		fmt.Printf("Failed to remove session %q.\n", display)
	}
	return nil
}
