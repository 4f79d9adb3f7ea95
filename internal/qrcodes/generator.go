// Package qrcodes renders QR code data URLs for shareable links, with an
// optional logo in the middle. A logo that cannot be fetched or decoded
// never fails generation; the plain QR code is returned instead.
package qrcodes

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"time"

	"cardshare_backend/platform/cache"
	"cardshare_backend/platform/config"
	"cardshare_backend/platform/logger"
	"cardshare_backend/platform/qrcode"

	"golang.org/x/sync/errgroup"
)

// DefaultLogoBox is the square a logo is scaled down to fit.
const DefaultLogoBox = 80

// LogoSource identifies a logo by storage key or by URL. The storage key
// wins when both are set.
type LogoSource struct {
	FileKey string
	URL     string
}

// IsZero reports whether no logo was requested.
func (l LogoSource) IsZero() bool {
	return l.FileKey == "" && l.URL == ""
}

func (l LogoSource) identity() string {
	if l.FileKey != "" {
		return "key:" + l.FileKey
	}
	if l.URL != "" {
		return "url:" + l.URL
	}
	return ""
}

// Request describes one QR code.
type Request struct {
	Content string
	Size    int
	Logo    LogoSource
	// LogoBox defaults to DefaultLogoBox.
	LogoBox int
}

// LogoFetcher loads the raw bytes of a logo.
type LogoFetcher interface {
	FetchLogo(ctx context.Context, src LogoSource) ([]byte, error)
}

// Generator produces QR code data URLs.
type Generator struct {
	logos       LogoFetcher
	cache       cache.Cache
	cacheTTL    time.Duration
	logoTimeout time.Duration
	log         *logger.Logger
}

// NewGenerator creates a Generator. logos and c may be nil, which disables
// logos and caching respectively.
func NewGenerator(logos LogoFetcher, c cache.Cache, cfg config.QRConfig, log *logger.Logger) *Generator {
	return &Generator{
		logos:       logos,
		cache:       c,
		cacheTTL:    cfg.GetQRCacheTTL(),
		logoTimeout: cfg.GetQRLogoTimeout(),
		log:         log,
	}
}

// Generate returns req rendered as a PNG data URL.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if req.Size <= 0 {
		return "", fmt.Errorf("qr size must be positive, got %d", req.Size)
	}
	if req.LogoBox <= 0 {
		req.LogoBox = DefaultLogoBox
	}

	key := cache.Key("qr", strconv.Itoa(req.Size), strconv.Itoa(req.LogoBox), req.Content, req.Logo.identity())
	if png, ok := g.cached(ctx, key); ok {
		return qrcode.DataURL(png), nil
	}

	png, degraded, err := g.render(ctx, req)
	if err != nil {
		return "", err
	}

	// A QR that dropped its requested logo is never cached so the next call
	// retries the fetch.
	if !degraded && g.cache != nil && g.cacheTTL > 0 {
		if err := g.cache.Set(ctx, key, png, g.cacheTTL); err != nil {
			g.log.WithContext(ctx).Warn("qr cache write failed", "error", err)
		}
	}
	return qrcode.DataURL(png), nil
}

func (g *Generator) cached(ctx context.Context, key string) ([]byte, bool) {
	if g.cache == nil || g.cacheTTL <= 0 {
		return nil, false
	}
	png, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.log.WithContext(ctx).Warn("qr cache read failed", "error", err)
		return nil, false
	}
	return png, ok
}

// render encodes the symbol and fetches the logo concurrently, then
// composes them. degraded reports that a requested logo was left out.
func (g *Generator) render(ctx context.Context, req Request) (png []byte, degraded bool, err error) {
	withLogo := !req.Logo.IsZero() && g.logos != nil
	level := qrcode.Medium
	if withLogo {
		level = qrcode.High
	}

	var (
		symbol  image.Image
		logo    []byte
		logoErr error
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		img, err := qrcode.Render(req.Content, req.Size, level)
		if err != nil {
			return err
		}
		symbol = img
		return nil
	})
	if withLogo {
		eg.Go(func() error {
			fetchCtx := egCtx
			if g.logoTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(egCtx, g.logoTimeout)
				defer cancel()
			}
			logo, logoErr = g.logos.FetchLogo(fetchCtx, req.Logo)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, false, fmt.Errorf("render qr: %w", err)
	}

	out := symbol
	if withLogo {
		if logoErr == nil {
			var composed image.Image
			composed, logoErr = qrcode.Compose(symbol, logo, req.LogoBox)
			if logoErr == nil {
				out = composed
			}
		}
		if logoErr != nil {
			degraded = true
			g.log.WithContext(ctx).QRDegraded(req.Content, logoErr)
		}
	}

	png, err = qrcode.EncodePNG(out)
	return png, degraded, err
}
