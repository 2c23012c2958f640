// Package main provides the instagrab command, a session manager for
// Instagram manual logins. It drives a real browser so a human can log
// in, then stores the resulting cookie state per account for reuse.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/instagrab/pkg/client"
	"github.com/entrhq/instagrab/pkg/config"
	"github.com/entrhq/instagrab/pkg/logging"
	"github.com/entrhq/instagrab/pkg/session"
)

const version = "0.1.0"

var (
	flagProjectDir bool
	flagDir        string
	flagUsername   string
	flagBrowser    string
	flagHeadless   bool
)

var rootCmd = &cobra.Command{
	Use:     "instagrab",
	Short:   "Manage Instagram login sessions",
	Long:    `instagrab stores Instagram login sessions captured from a real browser, one JSON file per account, so repeated manual logins are unnecessary.`,
	Version: version,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagProjectDir, "project-dir", false, "Store sessions in ./sessions instead of the home directory")
	pf.StringVar(&flagDir, "dir", "", "Custom session directory")
	pf.StringVar(&flagUsername, "username", "", "Instagram username")
	pf.StringVar(&flagBrowser, "browser", string(config.BrowserFirefox), "Browser engine (firefox, chromium, webkit)")
	pf.BoolVar(&flagHeadless, "headless", false, "Run the browser in headless mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliSettings is the merged view of the defaults file and flags; a flag
// the user set always wins.
type cliSettings struct {
	cfg      *config.Config
	dir      session.DirOptions
	browser  config.BrowserKind
	headless bool
}

func loadSettings(cmd *cobra.Command) (*cliSettings, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	s := &cliSettings{
		cfg:      cfg,
		browser:  cfg.Browser,
		headless: cfg.Headless,
		dir: session.DirOptions{
			Dir:           cfg.SessionDir,
			UseProjectDir: cfg.UseProjectDir,
		},
	}

	flags := cmd.Flags()
	if flags.Changed("browser") {
		kind, err := config.ParseBrowserKind(flagBrowser)
		if err != nil {
			return nil, err
		}
		s.browser = kind
	}
	if flags.Changed("headless") {
		s.headless = flagHeadless
	}
	if flagDir != "" {
		s.dir.Dir = flagDir
	}
	if flags.Changed("project-dir") {
		s.dir.UseProjectDir = flagProjectDir
	}

	return s, nil
}

// loginClientOptions builds the client options for commands that may
// run a manual login. Headless is always off here: the human has to see
// the browser window to log in, so the flag and config value only apply
// to non-interactive use.
func loginClientOptions(s *cliSettings, username string) client.Options {
	return client.Options{
		Username:        username,
		Dir:             s.dir,
		Headless:        false,
		Browser:         s.browser,
		TimeoutMs:       s.cfg.TimeoutMs,
		LoginWaitMs:     s.cfg.LoginWaitMs,
		MaxLoginRetries: s.cfg.MaxLoginRetries,
	}
}

// openStore resolves the session directory and opens the store.
func openStore(s *cliSettings) (*session.Store, error) {
	dir, err := session.ResolveDir(s.dir)
	if err != nil {
		return nil, err
	}
	log, _ := logging.NewLogger("cli")
	return session.NewStore(dir, log)
}
