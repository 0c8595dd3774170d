package webmail

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/mailpilot/pkg/browser"
	"github.com/playwright-community/playwright-go"
)

// fakeDriver records every call as "op selector" and fails the operations
// listed in failOn.
type fakeDriver struct {
	calls   []string
	fills   map[string]string
	counts  map[string]int
	failOn  map[string]error
	waitFor map[string]int // waits that time out before succeeding
	paused  time.Duration
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		fills:   map[string]string{},
		counts:  map[string]int{},
		failOn:  map[string]error{},
		waitFor: map[string]int{},
	}
}

func timeoutErr(what string) error {
	return fmt.Errorf("%s: %w: %w", what, browser.ErrTimeout, playwright.ErrTimeout)
}

func (f *fakeDriver) record(op, target string) error {
	key := op + " " + target
	f.calls = append(f.calls, key)
	return f.failOn[key]
}

func (f *fakeDriver) Navigate(url string, _ browser.NavigateOptions) error {
	return f.record("navigate", url)
}

func (f *fakeDriver) Click(opts browser.ClickOptions) error {
	return f.record("click", opts.Selector)
}

func (f *fakeDriver) Fill(opts browser.FillOptions) error {
	if err := f.record("fill", opts.Selector); err != nil {
		return err
	}
	f.fills[opts.Selector] = opts.Value
	return nil
}

func (f *fakeDriver) Wait(opts browser.WaitOptions) error {
	if err := f.record("wait", opts.Selector); err != nil {
		return err
	}
	if f.waitFor[opts.Selector] > 0 {
		f.waitFor[opts.Selector]--
		time.Sleep(time.Duration(opts.Timeout) * time.Millisecond)
		return timeoutErr("wait failed")
	}
	return nil
}

func (f *fakeDriver) Count(selector string) (int, error) {
	if err := f.record("count", selector); err != nil {
		return 0, err
	}
	return f.counts[selector], nil
}

func (f *fakeDriver) WaitForLoadState(state string, _ float64) error {
	return f.record("load", state)
}

func (f *fakeDriver) Pause(ctx context.Context, d time.Duration) error {
	f.paused += d
	return ctx.Err()
}
