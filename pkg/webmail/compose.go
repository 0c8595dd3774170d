package webmail

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/mailpilot/pkg/browser"
	"github.com/entrhq/mailpilot/pkg/logging"
)

// State is a compose-and-send progress state.
type State int

const (
	StateIdle State = iota
	StateComposeOpened
	StateFieldsFilled
	StateSent
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposeOpened:
		return "compose_opened"
	case StateFieldsFilled:
		return "fields_filled"
	case StateSent:
		return "sent"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Message is what gets sent.
type Message struct {
	To      string
	Subject string
	Body    string
}

// SendError reports the state reached and the step that failed.
type SendError struct {
	State State
	Step  string
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send failed in state %s at %s: %v", e.State, e.Step, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the step gave up waiting for the page.
func (e *SendError) Timeout() bool {
	return errors.Is(e.Err, browser.ErrTimeout)
}

// Composer runs the compose-and-send sequence once. Steps are not retried.
type Composer struct {
	provider Provider
	logger   *logging.Logger
	state    State
}

// NewComposer creates a composer for p. A nil logger discards output.
func NewComposer(p Provider, logger *logging.Logger) *Composer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Composer{provider: p, logger: logger}
}

// State returns the last state reached.
func (c *Composer) State() State {
	return c.state
}

// Send navigates to the webmail root and sends msg. Any failure is a
// *SendError.
func (c *Composer) Send(ctx context.Context, d Driver, msg Message) error {
	c.state = StateIdle
	c.logger.Infof("composing (%s)...", c.provider.Name())

	steps := []struct {
		name string
		run  func() error
		next State
	}{
		{"navigate", func() error {
			return d.Navigate(c.provider.HomeURL(), browser.NavigateOptions{WaitUntil: browser.LoadStateDOMContentLoaded})
		}, StateIdle},
		{"wait_ready", func() error { return c.provider.WaitReady(d) }, StateIdle},
		{"open_compose", func() error { return c.provider.OpenCompose(d) }, StateComposeOpened},
		{"fill_recipient", func() error { return c.provider.FillRecipient(d, msg.To) }, StateComposeOpened},
		{"fill_subject", func() error { return c.provider.FillSubject(d, msg.Subject) }, StateComposeOpened},
		{"fill_body", func() error { return c.provider.FillBody(d, msg.Body) }, StateFieldsFilled},
		{"send", func() error { return c.provider.Send(ctx, d) }, StateSent},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return &SendError{State: c.state, Step: step.name, Err: err}
		}
		if err := step.run(); err != nil {
			return &SendError{State: c.state, Step: step.name, Err: err}
		}
		c.state = step.next
		if step.name == "fill_subject" {
			c.logger.Infof("subject: %s", msg.Subject)
		}
	}

	c.logger.Infof("%s email sent", c.provider.Name())
	return nil
}
