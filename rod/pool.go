package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/stealth"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

const (
	// livenessTimeout bounds the version check made on a reused browser.
	livenessTimeout = 5 * time.Second
	// closeTimeout bounds teardown calls, which run detached from the
	// caller's context so a cancelled request still releases its context.
	closeTimeout = 5 * time.Second
)

// LaunchFunc starts a browser process and returns a connected browser
// along with the launcher that owns the process.
type LaunchFunc func() (*rod.Browser, *launcher.Launcher, error)

// Pool owns a single shared headless browser process and hands out
// isolated browsing contexts from it. The process is launched lazily on
// first use and relaunched when it is found disconnected.
//
// Pool is safe for concurrent use. Lifecycle transitions (launch and
// shutdown) are serialized by one mutex; contexts need no shared lock.
type Pool struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	launches int

	launch    LaunchFunc
	userAgent func() string
	scripts   []string
	width     int
	height    int
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithLaunchFunc replaces the function that starts the browser process.
func WithLaunchFunc(fn LaunchFunc) PoolOption {
	return func(p *Pool) {
		p.launch = fn
	}
}

// WithUserAgent sets the user-agent generator applied to every context.
// Defaults to stealth.UserAgent.
func WithUserAgent(fn func() string) PoolOption {
	return func(p *Pool) {
		p.userAgent = fn
	}
}

// WithScripts sets the scripts injected into every page before
// navigation. Defaults to stealth.Scripts().
func WithScripts(scripts []string) PoolOption {
	return func(p *Pool) {
		p.scripts = scripts
	}
}

// WithViewport sets the viewport size of new contexts.
func WithViewport(width, height int) PoolOption {
	return func(p *Pool) {
		p.width = width
		p.height = height
	}
}

// NewPool creates a Pool. No browser is started until the first Acquire.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		launch:    launchBrowser,
		userAgent: stealth.UserAgent,
		scripts:   stealth.Scripts(),
		width:     stealth.ViewportWidth,
		height:    stealth.ViewportHeight,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BrowsingContext is an isolated browser context (own cookie jar, viewport
// and user agent) with a single page ready for navigation.
type BrowsingContext struct {
	Page      *rod.Page
	UserAgent string

	incognito *rod.Browser
}

// Close closes the page and disposes of the context.
func (c *BrowsingContext) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if c.Page != nil {
		_ = c.Page.Context(ctx).Close()
	}
	return c.incognito.Context(ctx).Close()
}

// Acquire returns a fresh browsing context with stealth scripts installed.
// If no live browser exists one is launched first; a launch failure is
// returned as *crawlx.LaunchError and the next Acquire tries again.
func (p *Pool) Acquire(ctx context.Context) (*BrowsingContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := p.liveBrowser(ctx)
	if err != nil {
		return nil, err
	}

	// The incognito copy and its page inherit ctx, so every call made
	// while preparing the context gives up when the caller does.
	incognito, err := browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	bc, err := p.preparePage(incognito)
	if err != nil {
		_ = (&BrowsingContext{incognito: incognito}).Close()
		return nil, err
	}
	return bc, nil
}

// preparePage opens a page in the given context and applies the profile.
func (p *Pool) preparePage(incognito *rod.Browser) (*BrowsingContext, error) {
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	ua := p.userAgent()
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      ua,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("setting user agent: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             p.width,
		Height:            p.height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	for _, js := range p.scripts {
		if _, err := page.EvalOnNewDocument(js); err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("injecting init script: %w", err)
		}
	}

	return &BrowsingContext{Page: page, UserAgent: ua, incognito: incognito}, nil
}

// liveBrowser returns the current browser, launching a new one when none
// exists or the existing one no longer answers. A check that fails because
// ctx ended returns ctx's error and leaves the browser in place.
func (p *Pool) liveBrowser(ctx context.Context) (*rod.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser != nil {
		checkCtx, cancel := context.WithTimeout(ctx, livenessTimeout)
		_, err := proto.BrowserGetVersion{}.Call(p.browser.Context(checkCtx))
		cancel()
		if err == nil {
			return p.browser, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		_ = p.closeBrowser()
	}

	browser, lnchr, err := p.launch()
	if err != nil {
		return nil, &crawlx.LaunchError{Err: err}
	}
	p.browser = browser
	p.launcher = lnchr
	p.launches++
	return p.browser, nil
}

// Shutdown closes the browser process, which implicitly closes every
// context, and stops the launcher. Calling Shutdown when nothing is
// running is a no-op. A later Acquire launches a fresh process.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeBrowser()
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (p *Pool) closeBrowser() error {
	var err error
	if p.browser != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		err = p.browser.Context(ctx).Close()
		cancel()
		p.browser = nil
	}
	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher = nil
	}
	return err
}

// Launches returns how many browser processes the pool has started.
func (p *Pool) Launches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.launches
}

// LauncherPID returns the process ID of the browser launcher, or zero when
// no browser is running.
// This method exists for testing purposes to verify proper cleanup.
func (p *Pool) LauncherPID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.launcher == nil {
		return 0
	}
	return p.launcher.PID()
}

// launchBrowser starts a headless browser with automation hints disabled.
func launchBrowser() (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Leakless(true).
		Headless(true)
	lnchr.Delete(flags.Flag("enable-automation"))
	for name, value := range stealth.LaunchFlags {
		if value == "" {
			lnchr.Set(flags.Flag(name))
			continue
		}
		lnchr.Set(flags.Flag(name), value)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return browser, lnchr, nil
}
