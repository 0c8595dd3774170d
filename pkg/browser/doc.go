// Package browser drives a real Chrome or Chromium through Playwright.
//
// # Architecture
//
// The package is built around three pieces:
//
//  1. Locator: finds a system browser executable, or reports that the
//     bundled Chromium must be used
//  2. Manager: owns the Playwright driver and launches persistent,
//     stealth-hardened browser contexts
//  3. Session: one persistent context with exactly one page, exposing the
//     small set of page operations the webmail flows need
//
// # Session Lifecycle
//
//  1. Locate: NewLocator().Locate() picks the executable
//  2. Initialize: Manager.Initialize installs and starts the driver
//  3. Open: Manager.Open launches the context on a profile directory so
//     cookies survive between runs
//  4. Close: Session.Close releases the page and context; it is safe to
//     call more than once
//
// # Errors
//
// Operations that exceed their timeout return an error wrapping ErrTimeout,
// so callers can use errors.Is without importing Playwright.
package browser
