// Package stealth holds the disguises applied to automated browser pages:
// init scripts that mask automation-detectable properties, launcher flags,
// and a desktop user-agent generator.
package stealth

import (
	"math/rand/v2"

	rodstealth "github.com/go-rod/stealth"
)

// Default viewport for new browsing contexts.
const (
	ViewportWidth  = 1920
	ViewportHeight = 1080
)

// overrides patches the properties bot checks inspect first. It runs after
// the go-rod/stealth bundle so these definitions take precedence.
const overrides = `(() => {
	const define = (target, prop, get) => {
		try {
			Object.defineProperty(target, prop, { get, configurable: true });
		} catch (e) {}
	};

	define(navigator, 'webdriver', () => undefined);
	define(navigator, 'plugins', () => [1, 2, 3, 4, 5]);
	define(navigator, 'languages', () => ['en-US', 'en']);

	window.chrome = window.chrome || {};
	window.chrome.runtime = window.chrome.runtime || {};

	if (window.navigator.permissions && window.navigator.permissions.query) {
		const originalQuery = window.navigator.permissions.query.bind(window.navigator.permissions);
		window.navigator.permissions.query = (parameters) => (
			parameters && parameters.name === 'notifications'
				? Promise.resolve({ state: Notification.permission })
				: originalQuery(parameters)
		);
	}

	define(HTMLIFrameElement.prototype, 'contentWindow', function() { return window; });
})();`

// Scripts returns the page-initialization scripts in injection order.
func Scripts() []string {
	return []string{rodstealth.JS, overrides}
}

// LaunchFlags are the Chrome command-line switches, without leading
// dashes, that disable automation hints and harden headless runs in
// containers. A flag mapped to an empty string takes no value.
var LaunchFlags = map[string]string{
	"disable-blink-features":                 "AutomationControlled",
	"no-sandbox":                             "",
	"disable-setuid-sandbox":                 "",
	"disable-dev-shm-usage":                  "",
	"disable-hang-monitor":                   "",
	"disable-renderer-backgrounding":         "",
	"disable-background-timer-throttling":    "",
	"disable-backgrounding-occluded-windows": "",
}

// userAgents are recent desktop browser strings across the common
// platform and engine combinations.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.7; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
}

// UserAgent returns a plausible desktop browser user agent. Each call picks
// independently.
func UserAgent() string {
	return userAgents[rand.IntN(len(userAgents))]
}

// UserAgents returns a copy of the full candidate list.
func UserAgents() []string {
	out := make([]string, len(userAgents))
	copy(out, userAgents)
	return out
}
