package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of pages a browser serves before it is
// replaced.
const DefaultMaxPages = 75

// session is one launched browser and the pages it has served.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
}

func (s *session) close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

// BrowserManager owns the Chrome process and replaces it after MaxPages
// pages. Chrome memory grows over a long crawl even when every tab is
// closed.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	maxPages int
	headless bool

	mu          sync.Mutex
	current     *session
	generations int
	closed      bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a browser serves before it is replaced.
// Values below 1 are ignored.
func WithMaxPages(n int) ManagerOption {
	return func(bm *BrowserManager) {
		if n > 0 {
			bm.maxPages = n
		}
	}
}

// WithHeadless controls whether the browser window is hidden. Defaults to
// true; a visible window helps when diagnosing a template change.
func WithHeadless(headless bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.headless = headless
	}
}

// NewBrowserManager launches a browser. Close must be called when the
// BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages, headless: true}
	for _, opt := range opts {
		opt(bm)
	}

	s, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = s
	bm.generations = 1
	return bm, nil
}

// NewPage opens a blank tab, first replacing a browser that has served
// MaxPages pages. If the replacement fails to launch, the old browser keeps
// serving. The caller must close the page.
func (bm *BrowserManager) NewPage() (*rod.Page, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, errClosed
	}
	if bm.current.pages >= bm.maxPages {
		if fresh, err := bm.launch(); err == nil {
			_ = bm.current.close()
			bm.current = fresh
			bm.generations++
		}
	}

	page, err := bm.current.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	bm.current.pages++
	return page, nil
}

// Generations returns how many browsers have been launched so far.
func (bm *BrowserManager) Generations() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.generations
}

// LauncherPID returns the process ID of the current browser launcher, or 0
// once closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed {
		return 0
	}
	return bm.current.launcher.PID()
}

// Closed reports whether Close has been called.
func (bm *BrowserManager) Closed() bool {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.closed
}

// Close shuts the browser down. Close is idempotent.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return bm.current.close()
}

// launch starts Chrome with flags that keep background tabs from being
// throttled.
func (bm *BrowserManager) launch() (*session, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(bm.headless)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &session{browser: browser, launcher: l}, nil
}
