package indeed

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"geojobs-scraper/utils"
)

// PageFetcher retrieves the rendered HTML of a page. The browser session
// behind it is an external collaborator; the crawler only depends on this
// interface.
type PageFetcher interface {
	Fetch(url string) (string, error)
}

// ChromeFetcher renders pages through a headless Chrome instance.
type ChromeFetcher struct {
	allocCtx context.Context
	cancel   []context.CancelFunc
	logger   *utils.Logger
	timeout  time.Duration
}

// NewChromeFetcher starts a headless browser allocator. chromeBin overrides
// binary discovery when non-empty.
func NewChromeFetcher(chromeBin string, logger *utils.Logger) *ChromeFetcher {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[browser] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	return &ChromeFetcher{
		allocCtx: silentCtx,
		cancel:   []context.CancelFunc{cancelSilent, cancelAlloc},
		logger:   logger,
		timeout:  60 * time.Second,
	}
}

// Fetch navigates to url and returns the rendered page source.
func (f *ChromeFetcher) Fetch(url string) (string, error) {
	ctx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, f.timeout)
	defer cancelTimeout()

	var pageHTML string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &pageHTML),
	)
	if err != nil {
		return "", fmt.Errorf("browser: fetch %q: %w", url, err)
	}
	return pageHTML, nil
}

// Close shuts the browser allocator down.
func (f *ChromeFetcher) Close() {
	for _, cancel := range f.cancel {
		cancel()
	}
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
