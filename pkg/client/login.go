package client

import (
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const retryDelay = 2 * time.Second

// ManualLogin opens a browser on the Instagram login page and blocks
// until the human finishes logging in, then verifies the login and
// persists the session. Transient browser failures are retried with a
// fixed delay; the overall result is folded to a bool.
func (c *Client) ManualLogin() bool {
	for attempt := 1; attempt <= c.opts.MaxLoginRetries; attempt++ {
		if err := c.initBrowser(nil); err != nil {
			c.log.Warnf("failed to initialize browser (attempt %d/%d): %v", attempt, c.opts.MaxLoginRetries, err)
			c.cleanupBrowser()
			time.Sleep(retryDelay)
			continue
		}

		ok, retryable := c.attemptLogin()
		c.cleanupBrowser()

		if ok {
			return true
		}
		if !retryable {
			return false
		}

		c.log.Infof("retrying manual login (%d/%d)", attempt, c.opts.MaxLoginRetries)
		time.Sleep(retryDelay)
	}

	c.log.Errorf("failed to complete login after %d attempts", c.opts.MaxLoginRetries)
	return false
}

// attemptLogin runs one manual login attempt against an initialized
// browser. The second return value marks transient failures worth
// retrying (navigation errors, login wait timeouts).
func (c *Client) attemptLogin() (ok, retryable bool) {
	if _, err := c.page.Goto(loginURL); err != nil {
		c.log.Errorf("failed to open login page: %v", err)
		return false, true
	}

	c.log.Infof("waiting for manual login in the opened browser")

	// The location leaving the login URL for the site root is the
	// signal that the human finished logging in.
	err := c.page.WaitForURL(baseURL, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(c.opts.LoginWaitMs),
	})
	if err != nil {
		c.log.Errorf("login wait failed: %v", err)
		return false, true
	}

	if strings.Contains(c.page.URL(), "accounts/login") {
		c.log.Errorf("login failed or timed out")
		return false, false
	}

	if !c.VerifyLoginStatus() {
		c.log.Errorf("login verification failed")
		return false, false
	}

	c.log.Infof("login successful")
	if err := c.saveSession(); err != nil {
		c.log.Errorf("failed to save session: %v", err)
	}
	return true, false
}

// VerifyLoginStatus checks that the live browser session is logged in
// by visiting the profile settings page, and resolves the account
// username while there. Requires an open page.
func (c *Client) VerifyLoginStatus() bool {
	if c.page == nil {
		return false
	}

	if _, err := c.page.Goto(profileURL); err != nil {
		c.log.Errorf("failed to open profile page: %v", err)
		return false
	}

	// The settings page redirects anonymous visitors to the login form.
	if strings.Contains(c.page.URL(), "login") {
		c.log.Infof("session is invalid: redirected to login page")
		return false
	}

	if username := c.extractUsername(); username != "" {
		c.currentUsername = username
		c.log.Infof("verified login as user %q", username)
	} else if c.opts.Username != "" {
		// Still logged in, just could not read the name off the page.
		c.currentUsername = c.opts.Username
		c.log.Infof("using username from session file: %q", c.currentUsername)
	} else {
		c.log.Warnf("could not determine username from profile page")
	}

	c.loggedIn = true
	return true
}

// extractUsername reads the account name off the settings form, falling
// back to the profile icon's alt text on the home page. Returns ""
// when neither works; the caller decides what that means.
func (c *Client) extractUsername() string {
	field := c.page.Locator(`input[name="username"]`).First()
	if value, err := field.GetAttribute("value"); err == nil && value != "" {
		return value
	}

	if _, err := c.page.Goto(baseURL); err != nil {
		return ""
	}

	img := c.page.Locator(`a[href*="/accounts/activity/"] img`).First()
	alt, err := img.GetAttribute("alt")
	if err != nil || alt == "" {
		return ""
	}
	// Alt text reads "<username>'s profile picture".
	if !strings.Contains(strings.ToLower(alt), "profile picture") {
		return ""
	}
	return strings.SplitN(alt, "'", 2)[0]
}
