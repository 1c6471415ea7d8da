package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Capture is one intercepted background response.
type Capture struct {
	URL  string
	Body []byte
}

// BrowserOptions configures the headless browser.
type BrowserOptions struct {
	// Bin is the Chrome/Chromium binary; empty lets the launcher find or
	// download one.
	Bin      string
	Headless bool
	// Timeout bounds the whole navigation, including the selector wait.
	Timeout time.Duration
}

// Browser drives a fresh headless Chrome per navigation.
type Browser struct {
	opts BrowserOptions
}

// NewBrowser returns a Browser with the given options.
func NewBrowser(opts BrowserOptions) *Browser {
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	return &Browser{opts: opts}
}

type hit struct {
	id  proto.NetworkRequestID
	url string
}

// Capture navigates to pageURL, waits until waitSelector renders and returns
// the bodies of XHR/fetch responses whose URL contains urlPart, in arrival
// order.
func (b *Browser) Capture(ctx context.Context, pageURL, waitSelector, urlPart string) ([]Capture, error) {
	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	l := launcher.New().Headless(b.opts.Headless)
	if b.opts.Bin != "" {
		l = l.Bin(b.opts.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			slog.Debug("browser close", slog.Any("err", err), slog.String("component", "browser"))
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 1920, Height: 1080}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return nil, fmt.Errorf("enable network domain: %w", err)
	}

	var mu sync.Mutex
	var hits []hit
	wait := page.EachEvent(func(ev *proto.NetworkResponseReceived) {
		if ev.Type != proto.NetworkResourceTypeXHR && ev.Type != proto.NetworkResourceTypeFetch {
			return
		}
		if ev.Response == nil || !strings.Contains(ev.Response.URL, urlPart) {
			return
		}
		mu.Lock()
		hits = append(hits, hit{id: ev.RequestID, url: ev.Response.URL})
		mu.Unlock()
	})
	go wait()

	if err := page.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}
	if _, err := page.Element(waitSelector); err != nil {
		return nil, fmt.Errorf("wait for %q: %w", waitSelector, err)
	}

	mu.Lock()
	pending := append([]hit(nil), hits...)
	mu.Unlock()

	out := make([]Capture, 0, len(pending))
	for _, h := range pending {
		res, err := proto.NetworkGetResponseBody{RequestID: h.id}.Call(page)
		if err != nil {
			slog.Warn("response body unavailable", slog.String("url", h.url), slog.Any("err", err), slog.String("component", "browser"))
			continue
		}
		body := []byte(res.Body)
		if res.Base64Encoded {
			if body, err = base64.StdEncoding.DecodeString(res.Body); err != nil {
				slog.Warn("response body decode failed", slog.String("url", h.url), slog.Any("err", err), slog.String("component", "browser"))
				continue
			}
		}
		out = append(out, Capture{URL: h.url, Body: body})
	}
	slog.Debug("browser capture done", slog.String("url", pageURL), slog.Int("matched", len(out)), slog.String("component", "browser"))
	return out, nil
}
