package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/instagrab/pkg/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	Long:  `Display every stored session with its validity, timestamps and file details, newest first.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(settings)
	if err != nil {
		return err
	}

	fmt.Print(ui.RenderSessionList(store.List()))
	return nil
}
