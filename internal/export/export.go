// Package export renders the CV page as a downloadable document: a PDF printed by a
// headless browser, or the HTML page itself when no browser is available.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/portfolio/internal/types"
)

// DefaultTimeout bounds a single PDF print.
const DefaultTimeout = 30 * time.Second

// Content types of exported documents.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Printer turns an HTML page into a PDF.
type Printer interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromePrinter prints with a headless Chrome/Chromium started per call.
type ChromePrinter struct {
	Timeout time.Duration
	// ExecPath overrides the browser binary lookup.
	ExecPath string
}

// PrintPDF loads html into a blank page and prints it. Requires Chrome/Chromium to be
// installed on the system.
func (p *ChromePrinter) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(p.ExecPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser printing failed: %w", err)
	}
	return pdf, nil
}

// Document is an exported CV ready to be served.
type Document struct {
	ContentType string
	Filename    string
	Body        []byte
}

// Exporter prints the CV, falling back to HTML.
type Exporter struct {
	printer Printer
	log     *slog.Logger
}

// New creates an exporter. A nil printer always exports HTML.
func New(printer Printer, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{printer: printer, log: logger}
}

// Export prints html for the owner name in lang. Printing failures fall back to the
// HTML page; an error is returned only when ctx has ended.
func (e *Exporter) Export(ctx context.Context, lang types.Language, name, html string) (*Document, error) {
	base := Filename(lang, name)
	if e.printer != nil {
		pdf, err := e.printer.PrintPDF(ctx, html)
		if err == nil && len(pdf) > 0 {
			return &Document{ContentType: ContentTypePDF, Filename: base + ".pdf", Body: pdf}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.log.Warn("pdf export failed, serving html", "lang", lang, "error", err)
	}
	return &Document{ContentType: ContentTypeHTML, Filename: base + ".html", Body: []byte(html)}, nil
}

// Filename returns the download name without extension, e.g. "cv_Jane_Doe_ESP".
func Filename(lang types.Language, name string) string {
	suffix := "ESP"
	if lang == types.English {
		suffix = "ENG"
	}
	clean := strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '/' || r == '\\' || r == '"' || r < 0x20
	}), "_")
	if clean == "" {
		return "cv_" + suffix
	}
	return "cv_" + clean + "_" + suffix
}
