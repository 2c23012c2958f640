package session

import (
	"encoding/json"
	"time"
)

// Cookie is a single browser cookie as serialized by Playwright's
// storage state. Expires is epoch seconds; Playwright uses -1 for
// session-scoped cookies, which never count as valid here.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// StorageState is the browser state blob captured at login time.
// Cookies are decoded far enough to check expiry; origins (per-origin
// local storage) are opaque and carried through untouched.
type StorageState struct {
	Cookies []Cookie          `json:"cookies"`
	Origins []json.RawMessage `json:"origins"`
}

// Metadata is the envelope written alongside the storage state.
// Timestamps are epoch seconds to stay readable by older tooling.
type Metadata struct {
	Username  string  `json:"username"`
	CreatedAt float64 `json:"created_at"`
	LastUsed  float64 `json:"last_used"`
}

// Record is the persisted session document: one file per account.
type Record struct {
	StorageState StorageState `json:"storage_state"`
	Metadata     Metadata     `json:"metadata"`

	// Legacy marks a record decoded from a bare {cookies, origins}
	// file. Legacy records stay readable for listing but never count
	// as valid; only a fresh login writes the wrapped form.
	Legacy bool `json:"-"`
}

// Info describes one session file for listing purposes.
type Info struct {
	Username  string  `json:"username"`
	FileName  string  `json:"file_name"`
	FilePath  string  `json:"file_path"`
	CreatedAt float64 `json:"created_at"`
	LastUsed  float64 `json:"last_used"`
	FileSize  int64   `json:"file_size"`
	Valid     bool    `json:"is_valid"`
}

// SessionCookieName is the cookie Instagram issues for an authenticated
// session. Its presence and expiry decide validity.
const SessionCookieName = "sessionid"

// Valid reports whether the storage state carries a non-expired
// session cookie at the given instant.
func Valid(state StorageState, now time.Time) bool {
	nowSecs := float64(now.Unix())
	for _, c := range state.Cookies {
		if c.Name == SessionCookieName && c.Expires > nowSecs {
			return true
		}
	}
	return false
}

// Valid reports whether the record's storage state is still usable.
// Legacy records are always invalid regardless of cookie expiry.
func (r *Record) Valid(now time.Time) bool {
	if r.Legacy {
		return false
	}
	return Valid(r.StorageState, now)
}
