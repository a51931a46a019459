// Package pdf prints HTML documents to PDF through headless Chrome.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/fintrack/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

var (
	// ErrEmptyDocument is returned when there is no HTML to print
	ErrEmptyDocument = errors.New("pdf: empty document")
	// ErrRenderTimeout is returned when Chrome does not finish within the timeout
	ErrRenderTimeout = errors.New("pdf: render timed out")
)

// PaperSize is a page format with its dimensions in millimetres
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

var (
	PaperA4     = PaperSize{Name: "A4", Width: 210, Height: 297}
	PaperLetter = PaperSize{Name: "Letter", Width: 215.9, Height: 279.4}
)

// ParsePaperSize maps a configured name to a PaperSize, defaulting to A4
func ParsePaperSize(name string) PaperSize {
	if strings.EqualFold(name, PaperLetter.Name) {
		return PaperLetter
	}
	return PaperA4
}

// Document is one page set to print
type Document struct {
	Title string
	HTML  []byte
	// FooterHTML is repeated on every page. Chrome substitutes the
	// pageNumber and totalPages classes.
	FooterHTML string
	Landscape  bool
}

// ChromedpRenderer renders HTML to PDF using the Chrome DevTools Protocol
type ChromedpRenderer struct {
	paper       PaperSize
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer prepares a browser allocator. Chrome itself is started
// lazily by the first Render.
func NewChromedpRenderer(cfg config.PDFConfig, logger *zap.Logger) *ChromedpRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ChromedpRenderer{
		paper:   ParsePaperSize(cfg.PaperSize),
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// Render prints doc and returns the PDF bytes
func (r *ChromedpRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if len(bytes.TrimSpace(doc.HTML)) == 0 {
		return nil, ErrEmptyDocument
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()
	// tie the tab to the caller's deadline
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	content := wrapDocument(doc)
	params := r.printParams(doc)

	var out []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, content).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			out = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", ErrRenderTimeout, r.timeout)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("pdf: chrome returned an empty document")
	}

	r.logger.Debug("PDF rendered",
		zap.String("title", doc.Title),
		zap.Int("bytes", len(out)),
		zap.Duration("duration", time.Since(start)))
	return out, nil
}

// Close releases the browser allocator
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func (r *ChromedpRenderer) printParams(doc Document) *page.PrintToPDFParams {
	margin := mmToInches(12)
	p := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(mmToInches(r.paper.Width)).
		WithPaperHeight(mmToInches(r.paper.Height)).
		WithMarginTop(margin).
		WithMarginRight(margin).
		WithMarginBottom(margin).
		WithMarginLeft(margin).
		WithLandscape(doc.Landscape)
	if doc.FooterHTML != "" {
		p = p.WithDisplayHeaderFooter(true).
			WithHeaderTemplate("<span></span>").
			WithFooterTemplate(doc.FooterHTML).
			WithMarginBottom(mmToInches(18))
	}
	return p
}

// wrapDocument returns full documents unchanged and wraps fragments in a
// minimal html page
func wrapDocument(doc Document) string {
	lower := strings.ToLower(string(doc.HTML[:min(len(doc.HTML), 512)]))
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return string(doc.HTML)
	}

	var buf strings.Builder
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if doc.Title != "" {
		buf.WriteString("<title>")
		buf.WriteString(html.EscapeString(doc.Title))
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.Write(doc.HTML)
	buf.WriteString("</body></html>")
	return buf.String()
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
