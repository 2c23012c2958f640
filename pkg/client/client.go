// Package client drives a real browser through Playwright so a human
// can log into Instagram manually, then captures and reuses the
// resulting storage state. One client owns one browser, one context and
// one page, used strictly sequentially.
package client

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/instagrab/pkg/config"
	"github.com/entrhq/instagrab/pkg/logging"
	"github.com/entrhq/instagrab/pkg/session"
)

const (
	baseURL    = "https://www.instagram.com/"
	loginURL   = "https://www.instagram.com/accounts/login/"
	profileURL = "https://www.instagram.com/accounts/edit/"

	viewportWidth  = 1280
	viewportHeight = 800

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"
)

// launchArgs keep Chromium stable in containers and CI.
var launchArgs = []string{
	"--disable-dev-shm-usage",
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-gpu",
	"--disable-software-rasterizer",
}

// Options configures a Client.
type Options struct {
	// Username names the account; empty means the shared default
	// session file until a username is discovered at login.
	Username string

	// Dir selects the session directory.
	Dir session.DirOptions

	// Headless runs the browser without a window.
	Headless bool

	// Browser selects the engine. Empty defaults to chromium.
	Browser config.BrowserKind

	// TimeoutMs is the default page operation timeout.
	TimeoutMs float64

	// LoginWaitMs bounds the manual login wait.
	LoginWaitMs float64

	// MaxLoginRetries bounds retries after transient browser failures.
	MaxLoginRetries int
}

func (o *Options) applyDefaults() {
	defaults := config.DefaultConfig()
	if o.TimeoutMs == 0 {
		o.TimeoutMs = defaults.TimeoutMs
	}
	if o.LoginWaitMs == 0 {
		o.LoginWaitMs = defaults.LoginWaitMs
	}
	if o.MaxLoginRetries == 0 {
		o.MaxLoginRetries = defaults.MaxLoginRetries
	}
}

// Client is the transient handle binding a browser session to a session
// file. It is not safe for concurrent use and is not meant to be.
type Client struct {
	opts  Options
	store *session.Store
	log   *logging.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	// currentUsername is the account the live session belongs to, as
	// resolved at login or load time.
	currentUsername string
	loggedIn        bool
}

// New creates a client. The session directory is created if needed.
func New(opts Options) (*Client, error) {
	opts.applyDefaults()

	log, _ := logging.NewLogger("client") // fallback logger is fine

	dir, err := session.ResolveDir(opts.Dir)
	if err != nil {
		return nil, err
	}
	store, err := session.NewStore(dir, log)
	if err != nil {
		return nil, err
	}

	if opts.Username != "" {
		log.Infof("using session file for user %q: %s", opts.Username, store.Path(opts.Username))
	} else {
		log.Infof("using default session file: %s", store.Path(""))
	}

	return &Client{
		opts:  opts,
		store: store,
		log:   log,
	}, nil
}

// Store exposes the client's session store.
func (c *Client) Store() *session.Store { return c.store }

// IsLoggedIn reports whether a valid session is associated with this
// client, either loaded from disk or established by a manual login.
func (c *Client) IsLoggedIn() bool { return c.loggedIn }

// Username returns the resolved account username, which may be empty
// when unresolved.
func (c *Client) Username() string {
	return resolveUsername(c.opts.Username, c.currentUsername, "")
}

// initBrowser starts Playwright and launches the configured browser
// with a fresh context and page. When restore is non-nil its cookies
// and origins seed the new context.
func (c *Client) initBrowser(restore *session.StorageState) error {
	// Run the driver quietly so its output never reaches the terminal.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	c.pw = pw

	var browserType playwright.BrowserType
	switch c.opts.Browser {
	case config.BrowserFirefox:
		browserType = pw.Firefox
	case config.BrowserWebkit:
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(c.opts.Headless),
		Args:     launchArgs,
	})
	if err != nil {
		c.cleanupBrowser()
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	c.browser = browser

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewportWidth,
			Height: viewportHeight,
		},
		UserAgent: playwright.String(userAgent),
	}
	if restore != nil {
		state, stateErr := toPlaywrightStorageState(restore)
		if stateErr != nil {
			c.log.Warnf("failed to convert stored state, starting clean: %v", stateErr)
		} else {
			contextOpts.StorageState = state
		}
	}

	context, err := browser.NewContext(contextOpts)
	if err != nil {
		c.cleanupBrowser()
		return fmt.Errorf("failed to create browser context: %w", err)
	}
	c.context = context

	page, err := context.NewPage()
	if err != nil {
		c.cleanupBrowser()
		return fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(c.opts.TimeoutMs)
	c.page = page

	return nil
}

// cleanupBrowser releases page, context, browser and driver in order.
// Errors are logged and swallowed so every exit path can call it.
func (c *Client) cleanupBrowser() {
	if c.page != nil {
		if err := c.page.Close(); err != nil {
			c.log.Debugf("error closing page: %v", err)
		}
		c.page = nil
	}
	if c.context != nil {
		if err := c.context.Close(); err != nil {
			c.log.Debugf("error closing context: %v", err)
		}
		c.context = nil
	}
	if c.browser != nil {
		if err := c.browser.Close(); err != nil {
			c.log.Debugf("error closing browser: %v", err)
		}
		c.browser = nil
	}
	if c.pw != nil {
		if err := c.pw.Stop(); err != nil {
			c.log.Debugf("error stopping playwright: %v", err)
		}
		c.pw = nil
	}
}

// Close releases all browser resources and the client's logger.
// Safe to call multiple times and on a client that never launched.
func (c *Client) Close() {
	c.cleanupBrowser()
	if c.log != nil {
		c.log.Close()
	}
}

// resolveUsername picks the account username from the available
// sources: explicit option, then session metadata, then the token
// embedded in the file name. Empty means unresolved.
func resolveUsername(explicit, metadata, fromFile string) string {
	if explicit != "" {
		return session.NormalizeUsername(explicit)
	}
	if metadata != "" {
		return session.NormalizeUsername(metadata)
	}
	return session.NormalizeUsername(fromFile)
}
