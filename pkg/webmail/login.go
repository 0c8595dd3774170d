package webmail

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/mailpilot/pkg/browser"
	"github.com/entrhq/mailpilot/pkg/config"
	"github.com/entrhq/mailpilot/pkg/logging"
)

// AuthOutcome records how the session became usable.
type AuthOutcome int

const (
	// AuthReused means the persisted profile was already logged in.
	AuthReused AuthOutcome = iota
	// AuthAutomated means credential login succeeded.
	AuthAutomated
	// AuthAutomatedUnconfirmed means credential login failed or timed out
	// and the run continued anyway.
	AuthAutomatedUnconfirmed
	// AuthManual means the user logged in by hand.
	AuthManual
)

func (o AuthOutcome) String() string {
	switch o {
	case AuthReused:
		return "reused"
	case AuthAutomated:
		return "automated"
	case AuthAutomatedUnconfirmed:
		return "automated_unconfirmed"
	case AuthManual:
		return "manual"
	default:
		return fmt.Sprintf("AuthOutcome(%d)", int(o))
	}
}

// Authenticate opens the webmail root and makes sure the session is logged
// in. Login failures are logged and tolerated; the only errors returned are
// a failed initial navigation and a manual wait ended by ctx.
func Authenticate(ctx context.Context, d Driver, p Provider, creds config.Credentials, log *logging.Logger) (AuthOutcome, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := ctx.Err(); err != nil {
		return AuthReused, fmt.Errorf("authenticate: %w", err)
	}

	if err := d.Navigate(p.HomeURL(), browser.NavigateOptions{}); err != nil {
		return AuthReused, fmt.Errorf("open %s: %w", p.Name(), err)
	}

	ok, err := p.IsAuthenticated(d)
	if err != nil {
		log.Debugf("authentication check failed: %v", err)
	}
	if ok {
		log.Debugf("reusing saved %s session", p.Name())
		return AuthReused, nil
	}

	if creds.Configured() {
		log.Infof("attempting automated %s login for %s", p.Name(), creds.Email)
		if err := p.Login(d, creds); err != nil {
			if errors.Is(err, browser.ErrTimeout) {
				log.Warnf("%s login timed out, manual login may be required", p.Name())
			} else {
				log.Warnf("%s automated login failed: %v", p.Name(), err)
			}
			return AuthAutomatedUnconfirmed, nil
		}
		log.Infof("%s automated login succeeded", p.Name())
		return AuthAutomated, nil
	}

	log.Warnf("please log in to %s in the browser window; your session will be saved", p.Name())
	if err := p.AwaitManualLogin(ctx, d); err != nil {
		return AuthManual, fmt.Errorf("waiting for manual login: %w", err)
	}
	log.Infof("manual login detected")
	return AuthManual, nil
}
