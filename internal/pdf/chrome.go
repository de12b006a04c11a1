package pdf

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// A4 paper size in inches, portrait.
const (
	paperWidth  = 8.27
	paperHeight = 11.69
)

// ChromeRenderer prints documents through a headless Chromium instance. The
// browser is launched lazily on first use and shared across requests; pages
// are per-request.
type ChromeRenderer struct {
	bin    string
	logger zerolog.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewChromeRenderer builds a renderer using the Chromium binary at bin. An
// empty bin lets the launcher find or download one.
func NewChromeRenderer(bin string, logger zerolog.Logger) *ChromeRenderer {
	return &ChromeRenderer{bin: bin, logger: logger}
}

func (r *ChromeRenderer) ensureBrowser(ctx context.Context) (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return r.browser, nil
	}

	launch := launcher.New().Headless(true)
	if r.bin != "" {
		launch = launch.Bin(r.bin)
	}
	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching chromium: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to chromium: %w", err)
	}
	r.logger.Info().Str("control_url", controlURL).Msg("chromium launched")
	r.browser = browser
	return browser, nil
}

// RenderPDF loads html into a fresh page and prints it as A4 portrait with
// no margins. The template supplies its own page padding.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	browser, err := r.ensureBrowser(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("setting document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for document load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      f(paperWidth),
		PaperHeight:     f(paperHeight),
		MarginTop:       f(0),
		MarginBottom:    f(0),
		MarginLeft:      f(0),
		MarginRight:     f(0),
	})
	if err != nil {
		return nil, fmt.Errorf("printing to pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading pdf stream: %w", err)
	}
	return data, nil
}

// Close shuts the shared browser down. Safe to call without a prior render.
func (r *ChromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

func f(v float64) *float64 { return &v }
