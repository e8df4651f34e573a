package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Default print parameters (US Letter, inches).
const (
	DefaultPaperWidth  = 8.5
	DefaultPaperHeight = 11.0
	DefaultTimeoutSec  = 30
)

// PDFOptions defines parameters for a Chromium-based PDF print.
type PDFOptions struct {
	// PaperWidth and PaperHeight are in inches. If zero, US Letter is used.
	PaperWidth  float64
	PaperHeight float64

	// Landscape switches page orientation.
	Landscape bool

	// Timeout bounds the entire print operation. If zero, a sane default
	// (DefaultTimeoutSec) is used.
	Timeout time.Duration
}

// PrintPDF launches (or attaches to) a headless Chromium instance via
// chromedp, loads html into a blank page, waits for ReadySelector and
// prints the page to PDF.
//
// A parent context that already carries a chromedp allocator (for example
// chromedp.NewRemoteAllocator) is reused; otherwise a local Chromium is
// started.
func PrintPDF(parentCtx context.Context, html []byte, opts PDFOptions) ([]byte, error) {
	if len(html) == 0 {
		return nil, errors.New("render: html is empty")
	}
	if opts.PaperWidth <= 0 {
		opts.PaperWidth = DefaultPaperWidth
	}
	if opts.PaperHeight <= 0 {
		opts.PaperHeight = DefaultPaperHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var pdf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(opts.Landscape).
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("render: chromedp run failed: %w", err)
	}
	return pdf, nil
}
