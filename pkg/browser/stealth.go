package browser

import (
	"github.com/go-rod/stealth"
)

// Launch flags that hide the automation banner and the
// AutomationControlled blink feature.
var launchArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--disable-infobars",
}

// Default flags Playwright would otherwise pass.
var ignoredDefaultArgs = []string{"--enable-automation"}

// navigatorOverrides runs after the stealth bundle so its values win.
const navigatorOverrides = `(() => {
  Object.defineProperty(navigator, 'webdriver', { get: () => false });
  Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
  Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
})();`

// initScripts returns the scripts installed on every new document, in order.
func initScripts() []string {
	return []string{stealth.JS, navigatorOverrides}
}
