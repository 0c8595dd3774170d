// Package agent runs one instruction end to end: parse it, resolve a
// subject, open a browser session, authenticate and send.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/mailpilot/pkg/browser"
	"github.com/entrhq/mailpilot/pkg/config"
	"github.com/entrhq/mailpilot/pkg/instruction"
	"github.com/entrhq/mailpilot/pkg/llm"
	"github.com/entrhq/mailpilot/pkg/logging"
	"github.com/entrhq/mailpilot/pkg/subject"
	"github.com/entrhq/mailpilot/pkg/webmail"
)

// Session is an open browser session owned by a single run.
type Session interface {
	webmail.Driver
	Close() error
}

// Launcher starts the browser driver and opens sessions.
type Launcher interface {
	Initialize(target browser.Target) error
	Open(ctx context.Context, target browser.Target, opts browser.SessionOptions) (Session, error)
	Shutdown() error
}

// Result describes a completed run.
type Result struct {
	Fields  instruction.Fields
	Subject subject.Resolution
	Target  browser.Target
	Auth    webmail.AuthOutcome
}

// Agent sends email from natural-language instructions.
type Agent struct {
	cfg      *config.Config
	llm      llm.Provider
	webmail  webmail.Provider
	launcher Launcher
	locate   func() browser.Target
	logger   *logging.Logger
	resolver *subject.Resolver
}

// Option is a function that configures an agent
type Option func(*Agent)

// WithLLM sets the provider used for subject generation. Without one,
// subjects come from the textual fallbacks only.
func WithLLM(provider llm.Provider) Option {
	return func(a *Agent) {
		a.llm = provider
	}
}

// WithLogger sets the agent's logger
func WithLogger(logger *logging.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLauncher replaces the Playwright launcher
func WithLauncher(l Launcher) Option {
	return func(a *Agent) {
		a.launcher = l
	}
}

// WithLocator replaces browser discovery
func WithLocator(locate func() browser.Target) Option {
	return func(a *Agent) {
		a.locate = locate
	}
}

// New creates an agent for cfg.
func New(cfg *config.Config, opts ...Option) (*Agent, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	provider, err := webmail.Lookup(cfg.Webmail.Provider)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		cfg:     cfg,
		webmail: provider,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.launcher == nil {
		a.launcher = NewPlaywrightLauncher(a.logger.Named("browser"))
	}
	if a.locate == nil {
		a.locate = browser.NewLocator().Locate
	}
	a.resolver = subject.NewResolver(a.llm, subject.WithLogger(a.logger.Named("subject")))
	return a, nil
}

// Run executes text. The browser session is closed on every return path.
// Only a failed browser start, a cancelled manual login or a failed send
// produce an error.
func (a *Agent) Run(ctx context.Context, text instruction.Instruction) (*Result, error) {
	result := &Result{Fields: instruction.Extract(text)}
	if !result.Fields.HasRecipient {
		a.logger.Warnf("no recipient found in instruction")
	}
	if !result.Fields.HasBody {
		a.logger.Debugf("no message body found in instruction")
	}

	result.Subject = a.resolver.Resolve(ctx, result.Fields.Body)
	a.logger.Infof("subject (%s): %s", result.Subject.Stage, result.Subject.Subject)

	result.Target = a.target()

	if err := a.launcher.Initialize(result.Target); err != nil {
		return result, fmt.Errorf("start browser: %w", err)
	}
	defer func() {
		if err := a.launcher.Shutdown(); err != nil {
			a.logger.Warnf("failed to stop browser driver: %v", err)
		}
	}()

	sess, err := a.launcher.Open(ctx, result.Target, browser.SessionOptions{
		ProfileDir: a.cfg.Browser.ProfileDir,
		UserAgent:  a.cfg.Browser.UserAgent,
	})
	if err != nil {
		return result, fmt.Errorf("open browser session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			a.logger.Warnf("failed to close browser session: %v", err)
		}
	}()

	result.Auth, err = webmail.Authenticate(ctx, sess, a.webmail, a.cfg.Credentials, a.logger.Named("webmail"))
	if err != nil {
		return result, err
	}

	msg := webmail.Message{
		To:      result.Fields.Recipient,
		Subject: result.Subject.Subject,
		Body:    result.Fields.Body,
	}
	if err := webmail.NewComposer(a.webmail, a.logger.Named("webmail")).Send(ctx, sess, msg); err != nil {
		var sendErr *webmail.SendError
		if errors.As(err, &sendErr) && sendErr.Timeout() {
			return result, fmt.Errorf("timed out sending email: %w", err)
		}
		return result, err
	}
	return result, nil
}

func (a *Agent) target() browser.Target {
	if p := a.cfg.Browser.ExecutablePath; p != "" {
		a.logger.Debugf("using configured browser %s", p)
		return browser.Target{Path: p}
	}
	target := a.locate()
	if target.Bundled() {
		a.logger.Warnf("Chrome/Chromium not found, using bundled Chromium")
	}
	return target
}
