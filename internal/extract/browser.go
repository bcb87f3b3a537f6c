package extract

import (
	"context"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// session is the shared headless browser. It starts lazily on first use and
// is reused across extraction calls; Close tears it down on shutdown.
// The mutex guards lazy startup, concurrent tab use is bounded by the
// extractor's semaphore.
type session struct {
	mu         sync.Mutex
	userAgent  string
	allocStop  context.CancelFunc
	browserCtx context.Context
	stop       context.CancelFunc
	started    bool
}

func newSession(userAgent string) *session {
	return &session{userAgent: userAgent}
}

// acquire returns the live browser context, starting the browser if needed
func (s *session) acquire() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return s.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("disable-web-security", true),
		chromedp.UserAgent(s.userAgent),
	)

	allocCtx, allocStop := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, stop := chromedp.NewContext(allocCtx)

	// Launch the browser process now so a broken install fails here,
	// not inside the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		stop()
		allocStop()
		return nil, err
	}

	s.allocStop = allocStop
	s.browserCtx = browserCtx
	s.stop = stop
	s.started = true
	log.Info().Msg("headless browser session started")
	return s.browserCtx, nil
}

// fetchHTML opens a tab, navigates under the caller's deadline and returns
// the rendered document HTML.
func (s *session) fetchHTML(ctx context.Context, url string) (string, error) {
	browserCtx, err := s.acquire()
	if err != nil {
		return "", err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	// Honor the caller's timeout inside the tab
	if deadline, ok := ctx.Deadline(); ok {
		var cancelT context.CancelFunc
		tabCtx, cancelT = context.WithDeadline(tabCtx, deadline)
		defer cancelT()
	}

	var html string
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

func (s *session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.stop()
	s.allocStop()
	s.started = false
	log.Info().Msg("headless browser session closed")
}
