// Package webmail automates a webmail UI: detecting an authenticated
// session, logging in and composing and sending a message.
//
// Flows talk to the page through Driver and to the target UI through
// Provider, so a provider's selector set can change without touching the
// flow logic.
package webmail

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/entrhq/mailpilot/pkg/browser"
	"github.com/entrhq/mailpilot/pkg/config"
)

// ErrUnknownProvider is returned by Lookup for unregistered names.
var ErrUnknownProvider = errors.New("unknown webmail provider")

// Driver is the page surface the flows need. *browser.Session satisfies it.
type Driver interface {
	Navigate(url string, opts browser.NavigateOptions) error
	Click(opts browser.ClickOptions) error
	Fill(opts browser.FillOptions) error
	Wait(opts browser.WaitOptions) error
	Count(selector string) (int, error)
	WaitForLoadState(state string, timeout float64) error
	Pause(ctx context.Context, d time.Duration) error
}

var _ Driver = (*browser.Session)(nil)

// Provider is one webmail UI.
type Provider interface {
	// Name is the registry key, e.g. "gmail".
	Name() string

	// HomeURL is the webmail root.
	HomeURL() string

	// IsAuthenticated reports whether the compose affordance is present on
	// the current page.
	IsAuthenticated(d Driver) (bool, error)

	// Login performs a credential login and confirms it on the webmail root.
	Login(d Driver, creds config.Credentials) error

	// AwaitManualLogin blocks until the user has logged in or ctx is done.
	AwaitManualLogin(ctx context.Context, d Driver) error

	// WaitReady waits for the webmail UI to render.
	WaitReady(d Driver) error

	// OpenCompose opens the compose form and waits for its recipient field.
	OpenCompose(d Driver) error

	FillRecipient(d Driver, to string) error
	FillSubject(d Driver, subject string) error
	FillBody(d Driver, body string) error

	// Send clicks the send control and pauses so the send can register.
	Send(ctx context.Context, d Driver) error
}

var registry = map[string]func() Provider{
	config.WebmailGmail: func() Provider { return NewGmail() },
}

// Lookup returns a new provider registered under name.
func Lookup(name string) (Provider, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProvider, name, Names())
	}
	return factory(), nil
}

// Names lists the registered providers in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
