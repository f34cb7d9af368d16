package chrome

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// Page is one browser tab. Its context is what the driver adapter and the
// screenshot endpoint run their actions against.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
	URL    string
}

// NewPage creates a new tab in the running browser and navigates it to url.
func NewPage(browserCtx context.Context, url string) (*Page, error) {
	if browserCtx == nil {
		return nil, fmt.Errorf("browser context not initialized. Call LaunchBrowserAndContext first")
	}

	var newTargetID target.ID
	err := chromedp.Run(
		browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			newTargetID, err = target.CreateTarget(url).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create new target (tab): %w", err)
	}

	pageCtx, pageCancel := chromedp.NewContext(browserCtx, chromedp.WithTargetID(newTargetID))

	if err = chromedp.Run(pageCtx, chromedp.Navigate(url)); err != nil {
		pageCancel()
		return nil, fmt.Errorf("failed to navigate new page to %s: %w", url, err)
	}

	log.Debugf("New page (targetID: %s) created for %s", newTargetID, url)

	return &Page{
		ctx:    pageCtx,
		cancel: pageCancel,
		URL:    url,
	}, nil
}

func (p *Page) Context() context.Context {
	return p.ctx
}

// Navigate points the tab at a different URL.
func (p *Page) Navigate(url string) error {
	if err := chromedp.Run(p.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	p.URL = url
	return nil
}

// Screenshot captures the visible viewport as PNG.
func (p *Page) Screenshot() ([]byte, error) {
	var buf []byte
	if err := chromedp.Run(p.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

func (p *Page) Close() {
	p.cancel()
}
