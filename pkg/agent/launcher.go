package agent

import (
	"context"

	"github.com/entrhq/mailpilot/pkg/browser"
	"github.com/entrhq/mailpilot/pkg/logging"
)

// PlaywrightLauncher adapts a browser.Manager to Launcher.
type PlaywrightLauncher struct {
	manager *browser.Manager
}

// NewPlaywrightLauncher creates a launcher backed by a new browser.Manager.
func NewPlaywrightLauncher(logger *logging.Logger) *PlaywrightLauncher {
	return &PlaywrightLauncher{manager: browser.NewManager(logger)}
}

func (l *PlaywrightLauncher) Initialize(target browser.Target) error {
	return l.manager.Initialize(target)
}

func (l *PlaywrightLauncher) Open(ctx context.Context, target browser.Target, opts browser.SessionOptions) (Session, error) {
	sess, err := l.manager.Open(ctx, target, opts)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (l *PlaywrightLauncher) Shutdown() error {
	return l.manager.Shutdown()
}
