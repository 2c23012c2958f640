package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/instagrab/pkg/session"
)

// LoadSession validates the session file for this client's account and,
// when valid, marks the client logged in and bumps the file's
// last_used timestamp. No browser is required.
func (c *Client) LoadSession() bool {
	username := c.Username()
	rec, err := c.store.Load(username)
	if err != nil {
		if os.IsNotExist(err) {
			c.log.Warnf("session file not found: %s", c.store.Path(username))
		} else {
			c.log.Errorf("error reading session: %v", err)
		}
		return false
	}

	if !rec.Valid(time.Now()) {
		c.log.Warnf("session appears invalid or expired based on cookie expiry")
		return false
	}

	c.currentUsername = resolveUsername(
		c.opts.Username,
		rec.Metadata.Username,
		session.UsernameFromFileName(filepath.Base(c.store.Path(username))),
	)
	c.log.Infof("session validated for user %q", c.currentUsername)

	if _, err := c.store.Touch(username); err != nil {
		c.log.Warnf("failed to update last_used: %v", err)
	}

	c.loggedIn = true
	return true
}

// HasValidSession reports whether a valid session file exists without
// mutating it.
func (c *Client) HasValidSession() bool {
	rec, err := c.store.Load(c.Username())
	if err != nil {
		return false
	}
	return rec.Valid(time.Now())
}

// OpenBrowser launches the browser, seeding it from the stored session
// when one is valid so the page starts out authenticated.
func (c *Client) OpenBrowser() error {
	var restore *session.StorageState
	if rec, err := c.store.Load(c.Username()); err == nil && rec.Valid(time.Now()) {
		restore = &rec.StorageState
	}
	return c.initBrowser(restore)
}

// saveSession captures the live context's storage state and writes the
// wrapped record for the resolved username.
func (c *Client) saveSession() error {
	if !c.loggedIn || c.context == nil {
		return fmt.Errorf("cannot save session: not logged in or browser not initialized")
	}

	raw, err := c.context.StorageState()
	if err != nil {
		return fmt.Errorf("failed to capture storage state: %w", err)
	}
	state, err := fromPlaywrightStorageState(raw)
	if err != nil {
		return err
	}

	now := float64(time.Now().Unix())
	rec := &session.Record{
		StorageState: *state,
		Metadata: session.Metadata{
			Username:  c.Username(),
			CreatedAt: now,
			LastUsed:  now,
		},
	}
	return c.store.Save(rec)
}

// SaveSession persists the live browser session, folding errors to a
// bool result.
func (c *Client) SaveSession() bool {
	if err := c.saveSession(); err != nil {
		c.log.Errorf("%v", err)
		return false
	}
	return true
}

// The Playwright structs and the persisted record share the same JSON
// shape, so conversion is a round trip through encoding/json rather
// than field-by-field copying that would break on driver upgrades.

func fromPlaywrightStorageState(raw *playwright.StorageState) (*session.StorageState, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode storage state: %w", err)
	}
	var state session.StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode storage state: %w", err)
	}
	return &state, nil
}

func toPlaywrightStorageState(state *session.StorageState) (*playwright.OptionalStorageState, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode storage state: %w", err)
	}
	var out playwright.OptionalStorageState
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode storage state: %w", err)
	}
	return &out, nil
}
