// Package main provides sessioncheck, a standalone utility that
// inspects the default session locations and reports whether any
// stored Instagram session is still usable. Exit code 0 means at least
// one valid session was found, 1 means none.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/entrhq/instagrab/pkg/logging"
	"github.com/entrhq/instagrab/pkg/session"
	"github.com/entrhq/instagrab/pkg/ui"
)

func main() {
	fmt.Println(ui.Title("Instagram session check"))
	fmt.Println()

	log, _ := logging.NewLogger("sessioncheck")
	defer log.Close()

	homeOK := checkDir("home directory", homeSessionsDir(), log)
	fmt.Println()
	projectOK := checkDir("project directory", projectSessionsDir(), log)

	fmt.Println()
	if homeOK || projectOK {
		fmt.Println("Result: PASSED - at least one valid session found")
		os.Exit(0)
	}
	fmt.Println("Result: FAILED - no valid sessions found")
	os.Exit(1)
}

func homeSessionsDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".instagrab", "sessions")
}

func projectSessionsDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, "sessions")
}

// checkDir reports on every session file in dir and returns true when
// at least one is valid.
func checkDir(label, dir string, log *logging.Logger) bool {
	fmt.Printf("Checking %s: %s\n", label, dir)

	if dir == "" {
		fmt.Println("  could not resolve directory")
		return false
	}
	if _, err := os.Stat(dir); err != nil {
		fmt.Println("  no session directory found")
		return false
	}

	store, err := session.NewStore(dir, log)
	if err != nil {
		fmt.Printf("  failed to open session directory: %v\n", err)
		return false
	}

	infos := store.List()
	if len(infos) == 0 {
		fmt.Println("  no session files found")
		return false
	}

	anyValid := false
	for _, info := range infos {
		fmt.Printf("  %s %s (%d bytes, %d cookies)\n",
			ui.StatusBadge(info.Valid), info.FileName, info.FileSize, cookieCount(store, info))
		if info.Valid {
			anyValid = true
		}
	}
	return anyValid
}

func cookieCount(store *session.Store, info session.Info) int {
	rec, err := store.Load(session.UsernameFromFileName(info.FileName))
	if err != nil {
		return 0
	}
	return len(rec.StorageState.Cookies)
}
