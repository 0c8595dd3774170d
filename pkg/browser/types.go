package browser

import (
	"errors"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrTimeout is wrapped by every operation that gave up waiting.
var ErrTimeout = errors.New("browser operation timed out")

// Session represents an open persistent browser context and its page.
type Session struct {
	// Context is the persistent browser context
	Context playwright.BrowserContext

	// Page is the single page all operations act on
	Page playwright.Page

	// ProfileDir is the user data directory backing the context
	ProfileDir string

	// ExecutablePath is the browser binary, empty for bundled Chromium
	ExecutablePath string

	// CreatedAt is the timestamp when the session was opened
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// CurrentURL is the URL of the current page
	CurrentURL string

	closeOnce sync.Once
	closeErr  error
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// ProfileDir is the persistent user data directory
	ProfileDir string

	// UserAgent overrides the desktop user agent string
	UserAgent string

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// ClickOptions configures element clicking behavior.
type ClickOptions struct {
	// Selector identifies the element to click
	Selector string

	// Timeout in milliseconds
	Timeout float64
}

// FillOptions configures form input filling.
type FillOptions struct {
	// Selector identifies the input element
	Selector string

	// Value is the text to fill
	Value string

	// Timeout in milliseconds
	Timeout float64
}

// WaitOptions configures waiting behavior.
type WaitOptions struct {
	// Selector to wait for
	Selector string

	// State to wait for: "attached", "detached", "visible", "hidden"
	State string

	// Timeout in milliseconds
	Timeout float64
}

// Load states accepted by WaitForLoadState.
const (
	LoadStateLoad             = "load"
	LoadStateDOMContentLoaded = "domcontentloaded"
	LoadStateNetworkIdle      = "networkidle"
)

// Default values for various operations
const (
	DefaultTimeout    = 30000.0 // 30 seconds in milliseconds
	DefaultProfileDir = "./gmail_session"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"
)
