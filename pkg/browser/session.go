package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	if _, err := s.Page.Goto(url, gotoOptions(opts)); err != nil {
		return wrapErr("navigation failed", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// Click clicks an element matching the selector.
func (s *Session) Click(opts ClickOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageClickOptions{}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Click(opts.Selector, playwrightOpts); err != nil {
		return wrapErr("click failed", err)
	}

	// Update current URL in case click caused navigation
	s.CurrentURL = s.Page.URL()
	return nil
}

// Fill fills an input element with the specified value.
func (s *Session) Fill(opts FillOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageFillOptions{}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Fill(opts.Selector, opts.Value, playwrightOpts); err != nil {
		return wrapErr("fill failed", err)
	}
	return nil
}

// Wait waits for an element matching the selector to reach a state.
func (s *Session) Wait(opts WaitOptions) error {
	s.UpdateLastUsed()

	if opts.Selector == "" {
		return fmt.Errorf("selector is required for wait")
	}

	if _, err := s.Page.WaitForSelector(opts.Selector, waitOptions(opts)); err != nil {
		return wrapErr("wait failed", err)
	}
	return nil
}

// Count returns how many elements currently match the selector.
func (s *Session) Count(selector string) (int, error) {
	s.UpdateLastUsed()

	n, err := s.Page.Locator(selector).Count()
	if err != nil {
		return 0, wrapErr("count failed", err)
	}
	return n, nil
}

// WaitForLoadState waits until the page reaches the given load state.
func (s *Session) WaitForLoadState(state string, timeout float64) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageWaitForLoadStateOptions{}
	if state != "" {
		loadState := playwright.LoadState(state)
		playwrightOpts.State = &loadState
	}
	if timeout > 0 {
		playwrightOpts.Timeout = &timeout
	}

	if err := s.Page.WaitForLoadState(playwrightOpts); err != nil {
		return wrapErr("wait for load state failed", err)
	}
	return nil
}

// Pause blocks for d or until ctx is done.
func (s *Session) Pause(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

// Close releases the page and the persistent context. Later calls return
// the first call's result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.Page != nil {
			if err := s.Page.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
				errs = append(errs, err)
			}
		}
		if s.Context != nil {
			if err := s.Context.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			s.closeErr = fmt.Errorf("errors closing session: %w", errors.Join(errs...))
		}
	})
	return s.closeErr
}

func gotoOptions(opts NavigateOptions) playwright.PageGotoOptions {
	playwrightOpts := playwright.PageGotoOptions{}

	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}
	return playwrightOpts
}

func waitOptions(opts WaitOptions) playwright.PageWaitForSelectorOptions {
	playwrightOpts := playwright.PageWaitForSelectorOptions{}

	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		playwrightOpts.State = &state
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}
	return playwrightOpts
}

// wrapErr prefixes err with action and marks Playwright timeouts with
// ErrTimeout.
func wrapErr(action string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", action, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
