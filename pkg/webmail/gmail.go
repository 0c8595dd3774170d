package webmail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/mailpilot/pkg/browser"
	"github.com/entrhq/mailpilot/pkg/config"
)

// GmailSelectors is the Gmail markup contract. It breaks, as timeouts,
// whenever Gmail changes these attributes.
type GmailSelectors struct {
	Compose       string
	Authenticated string
	Ready         string
	Recipient     string
	Subject       string
	Body          string
	Send          string
	LoginEmail    string
	LoginNext     string
	LoginPassword string
	PasswordNext  string
}

// GmailTimeouts bounds each Gmail interaction.
type GmailTimeouts struct {
	Ready        time.Duration
	Recipient    time.Duration
	Send         time.Duration
	Password     time.Duration
	LoginConfirm time.Duration
	AfterSend    time.Duration
	ManualPoll   time.Duration
}

// Gmail drives mail.google.com.
type Gmail struct {
	HomeAddr  string
	LoginAddr string
	Selectors GmailSelectors
	Timeouts  GmailTimeouts
}

// NewGmail returns the provider with the current Gmail selectors.
func NewGmail() *Gmail {
	return &Gmail{
		HomeAddr:  "https://mail.google.com",
		LoginAddr: "https://accounts.google.com/ServiceLogin",
		Selectors: GmailSelectors{
			Compose:       "div[role='button'][gh='cm'], div[role='button']:has-text('Compose')",
			Authenticated: "div[role='button'][gh='cm']",
			Ready:         "div[role='button']",
			Recipient:     "input[aria-label='To recipients']",
			Subject:       "input[aria-label='Subject']",
			Body:          "div[aria-label='Message Body']",
			Send:          "div[role=button][data-tooltip*='Send']",
			LoginEmail:    "input[type='email']",
			LoginNext:     "#identifierNext, button:has-text('Next')",
			LoginPassword: "input[type='password']",
			PasswordNext:  "#passwordNext, button:has-text('Next')",
		},
		Timeouts: GmailTimeouts{
			Ready:        30 * time.Second,
			Recipient:    20 * time.Second,
			Send:         10 * time.Second,
			Password:     10 * time.Second,
			LoginConfirm: 15 * time.Second,
			AfterSend:    5 * time.Second,
			ManualPoll:   2 * time.Second,
		},
	}
}

var _ Provider = (*Gmail)(nil)

func (g *Gmail) Name() string { return config.WebmailGmail }
func (g *Gmail) HomeURL() string { return g.HomeAddr }

func (g *Gmail) IsAuthenticated(d Driver) (bool, error) {
	n, err := d.Count(g.Selectors.Authenticated)
	if err != nil {
		return false, fmt.Errorf("check compose button: %w", err)
	}
	return n > 0, nil
}

func (g *Gmail) Login(d Driver, creds config.Credentials) error {
	if err := d.Navigate(g.LoginAddr, browser.NavigateOptions{}); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := d.Fill(browser.FillOptions{Selector: g.Selectors.LoginEmail, Value: creds.Email}); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := d.Click(browser.ClickOptions{Selector: g.Selectors.LoginNext}); err != nil {
		return fmt.Errorf("submit email: %w", err)
	}
	if err := d.Wait(browser.WaitOptions{Selector: g.Selectors.LoginPassword, Timeout: ms(g.Timeouts.Password)}); err != nil {
		return fmt.Errorf("wait for password field: %w", err)
	}
	if err := d.Fill(browser.FillOptions{Selector: g.Selectors.LoginPassword, Value: creds.Password}); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := d.Click(browser.ClickOptions{Selector: g.Selectors.PasswordNext}); err != nil {
		return fmt.Errorf("submit password: %w", err)
	}
	if err := d.WaitForLoadState(browser.LoadStateNetworkIdle, 0); err != nil {
		return fmt.Errorf("wait for network idle: %w", err)
	}
	if err := d.Navigate(g.HomeAddr, browser.NavigateOptions{}); err != nil {
		return fmt.Errorf("open inbox: %w", err)
	}
	if err := d.Wait(browser.WaitOptions{Selector: g.Selectors.Authenticated, Timeout: ms(g.Timeouts.LoginConfirm)}); err != nil {
		return fmt.Errorf("confirm login: %w", err)
	}
	return nil
}

// AwaitManualLogin polls for the compose button with a short timeout per
// poll, so cancellation is noticed within one poll interval.
func (g *Gmail) AwaitManualLogin(ctx context.Context, d Driver) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := d.Wait(browser.WaitOptions{Selector: g.Selectors.Authenticated, Timeout: ms(g.Timeouts.ManualPoll)})
		if err == nil {
			return nil
		}
		if !errors.Is(err, browser.ErrTimeout) {
			return err
		}
	}
}

func (g *Gmail) WaitReady(d Driver) error {
	return d.Wait(browser.WaitOptions{Selector: g.Selectors.Ready, Timeout: ms(g.Timeouts.Ready)})
}

func (g *Gmail) OpenCompose(d Driver) error {
	if err := d.Click(browser.ClickOptions{Selector: g.Selectors.Compose}); err != nil {
		return fmt.Errorf("click compose: %w", err)
	}
	if err := d.Wait(browser.WaitOptions{Selector: g.Selectors.Recipient, Timeout: ms(g.Timeouts.Recipient)}); err != nil {
		return fmt.Errorf("wait for recipient field: %w", err)
	}
	return nil
}

func (g *Gmail) FillRecipient(d Driver, to string) error {
	return d.Fill(browser.FillOptions{Selector: g.Selectors.Recipient, Value: to})
}

func (g *Gmail) FillSubject(d Driver, subject string) error {
	return d.Fill(browser.FillOptions{Selector: g.Selectors.Subject, Value: subject})
}

func (g *Gmail) FillBody(d Driver, body string) error {
	return d.Fill(browser.FillOptions{Selector: g.Selectors.Body, Value: body})
}

func (g *Gmail) Send(ctx context.Context, d Driver) error {
	if err := d.Wait(browser.WaitOptions{Selector: g.Selectors.Send, Timeout: ms(g.Timeouts.Send)}); err != nil {
		return fmt.Errorf("wait for send button: %w", err)
	}
	if err := d.Click(browser.ClickOptions{Selector: g.Selectors.Send}); err != nil {
		return fmt.Errorf("click send: %w", err)
	}
	if err := d.Pause(ctx, g.Timeouts.AfterSend); err != nil {
		return fmt.Errorf("pause after send: %w", err)
	}
	return nil
}

// ms converts d to Playwright's millisecond timeouts.
func ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
