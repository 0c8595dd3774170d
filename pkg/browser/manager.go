package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/mailpilot/pkg/logging"
	"github.com/playwright-community/playwright-go"
)

// Manager owns the Playwright driver and opens browser sessions.
type Manager struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	logger      *logging.Logger
	initialized bool
}

// NewManager creates a new manager. A nil logger discards output.
func NewManager(logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{logger: logger}
}

// Initialize installs and starts the Playwright driver. The bundled
// Chromium is downloaded only when target has no system executable.
// This must be called before opening any sessions.
func (m *Manager) Initialize(target Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Driver output goes to the log file, not the terminal
	opts := &playwright.RunOptions{
		Browsers:            []string{"chromium"},
		SkipInstallBrowsers: !target.Bundled(),
		Verbose:             false,
		Stdout:              m.logger.Writer(),
		Stderr:              m.logger.Writer(),
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// Open launches a headed persistent context on opts.ProfileDir using the
// target executable and returns a session on its first page.
func (m *Manager) Open(ctx context.Context, target Target, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	opts = withDefaults(opts)
	if target.Bundled() {
		m.logger.Debugf("launching bundled Chromium")
	} else {
		m.logger.Debugf("launching browser from %s", target.Path)
	}

	bctx, err := m.playwright.Chromium.LaunchPersistentContext(opts.ProfileDir, launchOptions(target, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := prepare(bctx, opts)
	if err != nil {
		_ = bctx.Close() // Ignore errors, report the setup failure
		return nil, err
	}

	now := time.Now()
	return &Session{
		Context:        bctx,
		Page:           page,
		ProfileDir:     opts.ProfileDir,
		ExecutablePath: target.Path,
		CreatedAt:      now,
		LastUsedAt:     now,
		CurrentURL:     page.URL(),
	}, nil
}

// Shutdown stops the Playwright driver.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}

// prepare installs the stealth scripts before any navigation and returns
// the context's page with the user-agent header applied.
func prepare(bctx playwright.BrowserContext, opts SessionOptions) (playwright.Page, error) {
	for _, script := range initScripts() {
		if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(script)}); err != nil {
			return nil, fmt.Errorf("failed to add init script: %w", err)
		}
	}

	var page playwright.Page
	if pages := bctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		p, err := bctx.NewPage()
		if err != nil {
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
		page = p
	}

	if err := page.SetExtraHTTPHeaders(map[string]string{"user-agent": opts.UserAgent}); err != nil {
		return nil, fmt.Errorf("failed to set headers: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)
	return page, nil
}

func withDefaults(opts SessionOptions) SessionOptions {
	if opts.ProfileDir == "" {
		opts.ProfileDir = DefaultProfileDir
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return opts
}

func launchOptions(target Target, opts SessionOptions) playwright.BrowserTypeLaunchPersistentContextOptions {
	launchOpts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:          playwright.Bool(false),
		Args:              launchArgs,
		IgnoreDefaultArgs: ignoredDefaultArgs,
		UserAgent:         playwright.String(opts.UserAgent),
	}
	if !target.Bundled() {
		launchOpts.ExecutablePath = playwright.String(target.Path)
	}
	return launchOpts
}
